package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/clin92154/school-system/internal/model"
)

// LeaveTypeRepository 请假类型数据访问接口
type LeaveTypeRepository interface {
	GetByID(ctx context.Context, id uint) (*model.LeaveType, error)
	List(ctx context.Context) ([]model.LeaveType, error)
}

type leaveTypeRepo struct {
	db *gorm.DB
}

// NewLeaveTypeRepo 创建 LeaveTypeRepository 实例
func NewLeaveTypeRepo(db *gorm.DB) LeaveTypeRepository {
	return &leaveTypeRepo{db: db}
}

func (r *leaveTypeRepo) GetByID(ctx context.Context, id uint) (*model.LeaveType, error) {
	var lt model.LeaveType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&lt).Error
	if err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *leaveTypeRepo) List(ctx context.Context) ([]model.LeaveType, error) {
	var types []model.LeaveType
	err := r.db.WithContext(ctx).Order("id ASC").Find(&types).Error
	return types, err
}
