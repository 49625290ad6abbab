package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User       UserRepository
	ClassGroup ClassGroupRepository
	Semester   SemesterRepository
	Period     PeriodRepository
	Course     CourseRepository
	Enrollment EnrollmentRepository
	Leave      LeaveRepository
	LeaveType  LeaveTypeRepository
	Guardian   GuardianRepository
	Category   CategoryRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		User:       NewUserRepo(db),
		ClassGroup: NewClassGroupRepo(db),
		Semester:   NewSemesterRepo(db),
		Period:     NewPeriodRepo(db),
		Course:     NewCourseRepo(db),
		Enrollment: NewEnrollmentRepo(db),
		Leave:      NewLeaveRepo(db),
		LeaveType:  NewLeaveTypeRepo(db),
		Guardian:   NewGuardianRepo(db),
		Category:   NewCategoryRepo(db),
	}
}

// BeginTx 开启事务。无底层数据库（mock 仓储的单元测试场景）时返回 (nil, nil)，
// 调用方需以 tx != nil 判断是否存在真实事务。
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到指定事务的 Repository 聚合
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
