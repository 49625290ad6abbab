package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/clin92154/school-system/internal/model"
)

// PeriodRepository 节次数据访问接口
type PeriodRepository interface {
	Create(ctx context.Context, period *model.Period) error
	List(ctx context.Context) ([]model.Period, error)
	// ListByNumbers 按节次编号集合查询，用于校验请求中的节次是否都存在
	ListByNumbers(ctx context.Context, numbers []int) ([]model.Period, error)
}

type periodRepo struct {
	db *gorm.DB
}

// NewPeriodRepo 创建 PeriodRepository 实例
func NewPeriodRepo(db *gorm.DB) PeriodRepository {
	return &periodRepo{db: db}
}

func (r *periodRepo) Create(ctx context.Context, period *model.Period) error {
	return r.db.WithContext(ctx).Create(period).Error
}

func (r *periodRepo) List(ctx context.Context) ([]model.Period, error) {
	var periods []model.Period
	err := r.db.WithContext(ctx).
		Order("period_number ASC").
		Find(&periods).Error
	return periods, err
}

func (r *periodRepo) ListByNumbers(ctx context.Context, numbers []int) ([]model.Period, error) {
	if len(numbers) == 0 {
		return nil, nil
	}
	var periods []model.Period
	err := r.db.WithContext(ctx).
		Where("period_number IN ?", numbers).
		Order("period_number ASC").
		Find(&periods).Error
	return periods, err
}
