package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/clin92154/school-system/internal/model"
)

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	// GetByIDForTeacher 按课程主键查询且限定授课教师——
	// 教师只能操作自己名下的课程，越权时与不存在同样返回 ErrRecordNotFound
	GetByIDForTeacher(ctx context.Context, id, teacherID string) (*model.Course, error)
	// ListBySlot 列出同学期同星期下教师或班级的课程（冲突检查用），带节次
	ListBySlot(ctx context.Context, semesterID, dayOfWeek, teacherID, classID string) ([]model.Course, error)
	ListByTeacher(ctx context.Context, teacherID, semesterID string) ([]model.Course, error)
	ListByClass(ctx context.Context, classID, semesterID string) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	// ReplacePeriods 全量替换课程节次关联
	ReplacePeriods(ctx context.Context, course *model.Course, periods []model.Period) error
	Delete(ctx context.Context, id string) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Class").
		Preload("Periods").
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetByIDForTeacher(ctx context.Context, id, teacherID string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Periods").
		Where("course_id = ? AND teacher_id = ?", id, teacherID).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) ListBySlot(ctx context.Context, semesterID, dayOfWeek, teacherID, classID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Periods").
		Where("semester_id = ? AND day_of_week = ? AND (teacher_id = ? OR class_id = ?)",
			semesterID, dayOfWeek, teacherID, classID).
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) ListByTeacher(ctx context.Context, teacherID, semesterID string) ([]model.Course, error) {
	q := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Class").
		Preload("Periods").
		Where("teacher_id = ?", teacherID)
	if semesterID != "" {
		q = q.Where("semester_id = ?", semesterID)
	}
	var courses []model.Course
	err := q.Order("day_of_week ASC, course_id ASC").Find(&courses).Error
	return courses, err
}

func (r *courseRepo) ListByClass(ctx context.Context, classID, semesterID string) ([]model.Course, error) {
	q := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Class").
		Preload("Periods").
		Where("class_id = ?", classID)
	if semesterID != "" {
		q = q.Where("semester_id = ?", semesterID)
	}
	var courses []model.Course
	err := q.Order("day_of_week ASC, course_id ASC").Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Omit("Periods").Save(course).Error
}

func (r *courseRepo) ReplacePeriods(ctx context.Context, course *model.Course, periods []model.Period) error {
	return r.db.WithContext(ctx).Model(course).Association("Periods").Replace(periods)
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("course_id = ?", id).
		Delete(&model.Course{}).Error
}
