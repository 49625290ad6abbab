package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clin92154/school-system/internal/dto"
	"github.com/clin92154/school-system/internal/model"
	"github.com/clin92154/school-system/internal/repository"
	pkgerrors "github.com/clin92154/school-system/pkg/errors"
)

// ── 请假模块业务错误 ──

var (
	ErrLeaveNotFound       = errors.New("请假申请不存在")
	ErrLeaveTypeNotFound   = errors.New("请假类型不存在")
	ErrLeaveDateInvalid    = errors.New("请假结束日期不得早于开始日期")
	ErrLeaveAlreadyDecided = errors.New("请假申请已审批，不可重复操作")
	ErrLeaveForbidden      = errors.New("无权查看或审批该请假申请")
)

// LeaveService 请假业务接口
//
// 状态机 pending →（一次性）approved | rejected，终态不再变更。
// 审批以条件更新落库，两位教师并发审批同一申请时只有一方成功。
type LeaveService interface {
	// Apply 学生提交请假申请，leave_id 在创建时派生且不再重算
	Apply(ctx context.Context, studentID string, req *dto.CreateLeaveRequest) (*dto.LeaveResponse, error)
	// Decide 班导师审批本班学生的申请
	Decide(ctx context.Context, teacherID, leaveID string, req *dto.DecideLeaveRequest) (*dto.LeaveResponse, error)
	// Detail 查看申请明细：学生仅本人，教师仅本班
	Detail(ctx context.Context, viewerID, role, leaveID string) (*dto.LeaveResponse, error)
	// List 教师看本班学生的申请，学生看本人的申请
	List(ctx context.Context, viewerID, role string) ([]dto.LeaveResponse, error)
	ListLeaveTypes(ctx context.Context) ([]dto.LeaveTypeResponse, error)
}

type leaveService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLeaveService 创建 LeaveService 实例
func NewLeaveService(repo *repository.Repository, logger *zap.Logger) LeaveService {
	return &leaveService{repo: repo, logger: logger}
}

// ────────────────────── Apply ──────────────────────

func (s *leaveService) Apply(ctx context.Context, studentID string, req *dto.CreateLeaveRequest) (*dto.LeaveResponse, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrLeaveDateInvalid
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, ErrLeaveDateInvalid
	}
	if endDate.Before(startDate) {
		return nil, ErrLeaveDateInvalid
	}

	leaveType, err := s.repo.LeaveType.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveTypeNotFound
		}
		s.logger.Error("查询请假类型失败", zap.Error(err))
		return nil, err
	}

	periods, err := s.repo.Period.ListByNumbers(ctx, req.Periods)
	if err != nil {
		s.logger.Error("查询节次失败", zap.Error(err))
		return nil, err
	}
	if len(periods) != len(uniqueInts(req.Periods)) {
		return nil, ErrPeriodNotFound
	}

	applyDate := dateOnly(time.Now())

	// 当日序号：该学生当天已有申请数
	count, err := s.repo.Leave.CountByStudentAndApplyDate(ctx, studentID, applyDate)
	if err != nil {
		s.logger.Error("统计当日申请失败", zap.Error(err))
		return nil, err
	}

	leave := &model.LeaveApplication{
		LeaveID:     model.NewLeaveID(applyDate, req.LeaveTypeID, studentID, count),
		StudentID:   studentID,
		LeaveTypeID: req.LeaveTypeID,
		Reason:      req.Reason,
		ApplyDate:   applyDate,
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      model.LeaveStatusPending,
		Periods:     periods,
	}

	// 已登记监护人时随申请记录
	if guardian, err := s.repo.Guardian.GetByStudent(ctx, studentID); err == nil {
		leave.GuardianID = &guardian.GuardianID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询监护人失败", zap.Error(err))
		return nil, err
	}

	if err := s.repo.Leave.Create(ctx, leave); err != nil {
		s.logger.Error("创建请假申请失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	leave.LeaveType = leaveType
	return toLeaveResponse(leave), nil
}

// ────────────────────── Decide ──────────────────────

func (s *leaveService) Decide(ctx context.Context, teacherID, leaveID string, req *dto.DecideLeaveRequest) (*dto.LeaveResponse, error) {
	leave, err := s.repo.Leave.GetByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		s.logger.Error("查询请假申请失败", zap.Error(err))
		return nil, err
	}

	// 仅申请人所在班级的班导师可审批
	class, err := s.repo.ClassGroup.GetByTeacher(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveForbidden
		}
		s.logger.Error("查询班导师任班失败", zap.Error(err))
		return nil, err
	}
	if leave.Student == nil || leave.Student.ClassID == nil || *leave.Student.ClassID != class.ClassID {
		return nil, ErrLeaveForbidden
	}

	if leave.IsDecided() {
		return nil, ErrLeaveAlreadyDecided
	}

	approvedDate := dateOnly(time.Now())
	err = s.repo.Leave.DecideIfPending(ctx, leaveID, req.Status, teacherID, approvedDate, req.Remark)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrStateConflict) {
			return nil, ErrLeaveAlreadyDecided
		}
		s.logger.Error("审批请假申请失败", zap.String("leave_id", leaveID), zap.Error(err))
		return nil, err
	}

	leave, err = s.repo.Leave.GetByID(ctx, leaveID)
	if err != nil {
		s.logger.Error("查询请假申请失败", zap.Error(err))
		return nil, err
	}
	return toLeaveResponse(leave), nil
}

// ────────────────────── 查询 ──────────────────────

func (s *leaveService) Detail(ctx context.Context, viewerID, role, leaveID string) (*dto.LeaveResponse, error) {
	leave, err := s.repo.Leave.GetByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		s.logger.Error("查询请假申请失败", zap.Error(err))
		return nil, err
	}

	switch role {
	case model.RoleStudent:
		if leave.StudentID != viewerID {
			return nil, ErrLeaveForbidden
		}
	case model.RoleTeacher:
		class, err := s.repo.ClassGroup.GetByTeacher(ctx, viewerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrLeaveForbidden
			}
			s.logger.Error("查询班导师任班失败", zap.Error(err))
			return nil, err
		}
		if leave.Student == nil || leave.Student.ClassID == nil || *leave.Student.ClassID != class.ClassID {
			return nil, ErrLeaveForbidden
		}
	default:
		return nil, ErrLeaveForbidden
	}

	return toLeaveResponse(leave), nil
}

func (s *leaveService) List(ctx context.Context, viewerID, role string) ([]dto.LeaveResponse, error) {
	var (
		leaves []model.LeaveApplication
		err    error
	)
	switch role {
	case model.RoleStudent:
		leaves, err = s.repo.Leave.ListByStudent(ctx, viewerID)
	case model.RoleTeacher:
		var class *model.ClassGroup
		class, err = s.repo.ClassGroup.GetByTeacher(ctx, viewerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return []dto.LeaveResponse{}, nil
			}
			s.logger.Error("查询班导师任班失败", zap.Error(err))
			return nil, err
		}
		leaves, err = s.repo.Leave.ListByClassStudents(ctx, class.ClassID)
	default:
		return nil, ErrLeaveForbidden
	}
	if err != nil {
		s.logger.Error("列出请假申请失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.LeaveResponse, 0, len(leaves))
	for i := range leaves {
		result = append(result, *toLeaveResponse(&leaves[i]))
	}
	return result, nil
}

func (s *leaveService) ListLeaveTypes(ctx context.Context) ([]dto.LeaveTypeResponse, error) {
	types, err := s.repo.LeaveType.List(ctx)
	if err != nil {
		s.logger.Error("列出请假类型失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		result = append(result, dto.LeaveTypeResponse{ID: t.ID, TypeName: t.TypeName})
	}
	return result, nil
}

// dateOnly 取本地时区的日历日零点，申请日与审批日都以本地日界为准
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ── 响应转换 ──

func toLeaveResponse(leave *model.LeaveApplication) *dto.LeaveResponse {
	periods := make([]int, 0, len(leave.Periods))
	for _, p := range leave.Periods {
		periods = append(periods, p.PeriodNumber)
	}
	sort.Ints(periods)

	resp := &dto.LeaveResponse{
		LeaveID:    leave.LeaveID,
		StudentID:  leave.StudentID,
		Reason:     leave.Reason,
		ApplyDate:  leave.ApplyDate.Format("2006-01-02"),
		StartDate:  leave.StartDate.Format("2006-01-02"),
		EndDate:    leave.EndDate.Format("2006-01-02"),
		Periods:    periods,
		Status:     leave.Status,
		ApprovedBy: leave.ApprovedBy,
		Remark:     leave.Remark,
	}
	if leave.Student != nil {
		resp.StudentName = leave.Student.Name
	}
	if leave.LeaveType != nil {
		resp.LeaveType = leave.LeaveType.TypeName
	}
	if leave.Approver != nil {
		resp.ApproverName = leave.Approver.Name
	}
	if leave.ApprovedDate != nil {
		d := leave.ApprovedDate.Format("2006-01-02")
		resp.ApprovedDate = &d
	}
	return resp
}
