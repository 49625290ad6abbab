package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/clin92154/school-system/internal/model"
)

// GuardianRepository 监护人数据访问接口
type GuardianRepository interface {
	// Upsert 按学生维度保存监护人信息，存在则整体更新
	Upsert(ctx context.Context, guardian *model.Guardian) error
	GetByStudent(ctx context.Context, studentID string) (*model.Guardian, error)
	DeleteByStudent(ctx context.Context, studentID string) error
}

type guardianRepo struct {
	db *gorm.DB
}

// NewGuardianRepo 创建 GuardianRepository 实例
func NewGuardianRepo(db *gorm.DB) GuardianRepository {
	return &guardianRepo{db: db}
}

func (r *guardianRepo) Upsert(ctx context.Context, guardian *model.Guardian) error {
	return r.db.WithContext(ctx).Save(guardian).Error
}

func (r *guardianRepo) GetByStudent(ctx context.Context, studentID string) (*model.Guardian, error) {
	var guardian model.Guardian
	err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&guardian).Error
	if err != nil {
		return nil, err
	}
	return &guardian, nil
}

func (r *guardianRepo) DeleteByStudent(ctx context.Context, studentID string) error {
	return r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&model.Guardian{}).Error
}
