package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/clin92154/school-system/internal/model"
)

// ClassGroupRepository 班级数据访问接口
type ClassGroupRepository interface {
	Create(ctx context.Context, class *model.ClassGroup) error
	GetByID(ctx context.Context, id string) (*model.ClassGroup, error)
	List(ctx context.Context) ([]model.ClassGroup, error)
	// GetByTeacher 查询指定教师担任班导师的班级
	GetByTeacher(ctx context.Context, teacherID string) (*model.ClassGroup, error)
}

type classGroupRepo struct {
	db *gorm.DB
}

// NewClassGroupRepo 创建 ClassGroupRepository 实例
func NewClassGroupRepo(db *gorm.DB) ClassGroupRepository {
	return &classGroupRepo{db: db}
}

func (r *classGroupRepo) Create(ctx context.Context, class *model.ClassGroup) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classGroupRepo) GetByID(ctx context.Context, id string) (*model.ClassGroup, error) {
	var class model.ClassGroup
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Where("class_id = ?", id).
		First(&class).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classGroupRepo) List(ctx context.Context) ([]model.ClassGroup, error) {
	var classes []model.ClassGroup
	err := r.db.WithContext(ctx).
		Order("year DESC, class_name ASC").
		Find(&classes).Error
	return classes, err
}

func (r *classGroupRepo) GetByTeacher(ctx context.Context, teacherID string) (*model.ClassGroup, error) {
	var class model.ClassGroup
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		First(&class).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}
