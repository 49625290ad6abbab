package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/clin92154/school-system/internal/model"
)

// EnrollmentRepository 选课（成绩）记录数据访问接口
type EnrollmentRepository interface {
	// FirstOrCreate 按 (course_id, student_id) 幂等创建选课记录
	FirstOrCreate(ctx context.Context, enrollment *model.Enrollment) error
	GetByCourseAndStudent(ctx context.Context, courseID, studentID string) (*model.Enrollment, error)
	// ListByCourse 按学号升序列出课程下全部选课记录，带学生信息
	ListByCourse(ctx context.Context, courseID string) ([]model.Enrollment, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Enrollment, error)
	ListByStudentAndSemester(ctx context.Context, studentID, semesterID string) ([]model.Enrollment, error)
	Update(ctx context.Context, enrollment *model.Enrollment) error
	DeleteByCourse(ctx context.Context, courseID string) error
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) FirstOrCreate(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", enrollment.CourseID, enrollment.StudentID).
		FirstOrCreate(enrollment).Error
}

func (r *enrollmentRepo) GetByCourseAndStudent(ctx context.Context, courseID, studentID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) ListByCourse(ctx context.Context, courseID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("course_id = ?", courseID).
		Order("student_id ASC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Course.Teacher").
		Where("student_id = ?", studentID).
		Order("semester_id ASC, course_id ASC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepo) ListByStudentAndSemester(ctx context.Context, studentID, semesterID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Course.Teacher").
		Where("student_id = ? AND semester_id = ?", studentID, semesterID).
		Order("course_id ASC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepo) Update(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Save(enrollment).Error
}

func (r *enrollmentRepo) DeleteByCourse(ctx context.Context, courseID string) error {
	return r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&model.Enrollment{}).Error
}
