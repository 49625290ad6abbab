package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/clin92154/school-system/internal/model"
	pkgerrors "github.com/clin92154/school-system/pkg/errors"
)

// LeaveRepository 请假申请数据访问接口
type LeaveRepository interface {
	Create(ctx context.Context, leave *model.LeaveApplication) error
	GetByID(ctx context.Context, id string) (*model.LeaveApplication, error)
	// CountByStudentAndApplyDate 统计学生当日已有申请数量，用于生成申请单号的序号
	CountByStudentAndApplyDate(ctx context.Context, studentID string, applyDate time.Time) (int64, error)
	// ListByStudent 列出学生本人的申请，按 (status, apply_date) 排序
	ListByStudent(ctx context.Context, studentID string) ([]model.LeaveApplication, error)
	// ListByClassStudents 列出班级全体学生的申请，与学生侧同序
	ListByClassStudents(ctx context.Context, classID string) ([]model.LeaveApplication, error)
	// DecideIfPending 仅当申请仍处于待审批状态时写入审批结果，
	// 已被他人处理过的申请返回 pkg/errors.ErrStateConflict
	DecideIfPending(ctx context.Context, leaveID, status, approverID string, approvedDate time.Time, remark *string) error
}

type leaveRepo struct {
	db *gorm.DB
}

// NewLeaveRepo 创建 LeaveRepository 实例
func NewLeaveRepo(db *gorm.DB) LeaveRepository {
	return &leaveRepo{db: db}
}

func (r *leaveRepo) Create(ctx context.Context, leave *model.LeaveApplication) error {
	return r.db.WithContext(ctx).Create(leave).Error
}

func (r *leaveRepo) GetByID(ctx context.Context, id string) (*model.LeaveApplication, error) {
	var leave model.LeaveApplication
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Guardian").
		Preload("LeaveType").
		Preload("Periods").
		Preload("Approver").
		Where("leave_id = ?", id).
		First(&leave).Error
	if err != nil {
		return nil, err
	}
	return &leave, nil
}

func (r *leaveRepo) CountByStudentAndApplyDate(ctx context.Context, studentID string, applyDate time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.LeaveApplication{}).
		Where("student_id = ? AND apply_date = ?", studentID, applyDate.Format("2006-01-02")).
		Count(&count).Error
	return count, err
}

func (r *leaveRepo) ListByStudent(ctx context.Context, studentID string) ([]model.LeaveApplication, error) {
	var leaves []model.LeaveApplication
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		Preload("Periods").
		Where("student_id = ?", studentID).
		Order("status, apply_date, leave_id").
		Find(&leaves).Error
	return leaves, err
}

func (r *leaveRepo) ListByClassStudents(ctx context.Context, classID string) ([]model.LeaveApplication, error) {
	var leaves []model.LeaveApplication
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("LeaveType").
		Preload("Periods").
		Joins("JOIN users ON users.user_id = leave_applications.student_id").
		Where("users.class_id = ?", classID).
		Order("leave_applications.status, leave_applications.apply_date, leave_applications.leave_id").
		Find(&leaves).Error
	return leaves, err
}

func (r *leaveRepo) DecideIfPending(ctx context.Context, leaveID, status, approverID string, approvedDate time.Time, remark *string) error {
	result := r.db.WithContext(ctx).
		Model(&model.LeaveApplication{}).
		Where("leave_id = ? AND status = ?", leaveID, model.LeaveStatusPending).
		Updates(map[string]interface{}{
			"status":        status,
			"approved_by":   approverID,
			"approved_date": approvedDate,
			"remark":        remark,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStateConflict
	}
	return nil
}
