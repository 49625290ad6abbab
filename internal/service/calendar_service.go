package service

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clin92154/school-system/internal/dto"
	"github.com/clin92154/school-system/internal/model"
	"github.com/clin92154/school-system/internal/repository"
)

// ── 校历模块业务错误 ──

var (
	ErrSemesterNotFound    = errors.New("学期不存在")
	ErrSemesterDateInvalid = errors.New("学期结束日期必须晚于开始日期")
	ErrSemesterExists      = errors.New("学期已存在")
	ErrClassNotFound       = errors.New("班级不存在")
	ErrClassNameInvalid    = errors.New("班级名称必须为单个大写字母 A-Z")
	ErrClassExists         = errors.New("班级已存在")
	ErrTeacherHasClass     = errors.New("该教师已担任其他班级的班导师")
	ErrTeacherInvalid      = errors.New("班导师必须为教师角色")
	ErrPeriodExists        = errors.New("节次已存在")
	ErrPeriodTimeInvalid   = errors.New("节次结束时间必须晚于开始时间")
)

var classNamePattern = regexp.MustCompile(`^[A-Z]$`)

// CalendarService 校历业务接口：学期、班级、节次
type CalendarService interface {
	CreateSemester(ctx context.Context, req *dto.CreateSemesterRequest) (*dto.SemesterResponse, error)
	UpdateSemester(ctx context.Context, semesterID string, req *dto.UpdateSemesterRequest) (*dto.SemesterResponse, error)
	ListSemesters(ctx context.Context) ([]dto.SemesterResponse, error)
	CreateClass(ctx context.Context, req *dto.CreateClassRequest) (*dto.ClassResponse, error)
	ListClasses(ctx context.Context) ([]dto.ClassResponse, error)
	CreatePeriod(ctx context.Context, req *dto.CreatePeriodRequest) (*dto.PeriodResponse, error)
	ListPeriods(ctx context.Context) ([]dto.PeriodResponse, error)
	// DaysOfWeek 课程 day_of_week 的合法取值（固定列表）
	DaysOfWeek() []string
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, logger: logger}
}

// ────────────────────── 学期 ──────────────────────

func (s *calendarService) CreateSemester(ctx context.Context, req *dto.CreateSemesterRequest) (*dto.SemesterResponse, error) {
	beginDate, endDate, err := parseSemesterDates(req.BeginDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	term := strconv.Itoa(req.Term)
	semesterID := model.NewSemesterID(req.Year, term)

	if _, err := s.repo.Semester.GetByID(ctx, semesterID); err == nil {
		return nil, ErrSemesterExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询学期失败", zap.Error(err))
		return nil, err
	}

	semester := &model.Semester{
		SemesterID: semesterID,
		Year:       req.Year,
		Term:       term,
		BeginDate:  beginDate,
		EndDate:    endDate,
	}
	if err := s.repo.Semester.Create(ctx, semester); err != nil {
		s.logger.Error("创建学期失败", zap.String("semester_id", semesterID), zap.Error(err))
		return nil, err
	}
	return toSemesterResponse(semester), nil
}

func (s *calendarService) UpdateSemester(ctx context.Context, semesterID string, req *dto.UpdateSemesterRequest) (*dto.SemesterResponse, error) {
	semester, err := s.repo.Semester.GetByID(ctx, semesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Error(err))
		return nil, err
	}

	beginDate := semester.BeginDate
	endDate := semester.EndDate
	if req.BeginDate != nil {
		if beginDate, err = time.Parse("2006-01-02", *req.BeginDate); err != nil {
			return nil, ErrSemesterDateInvalid
		}
	}
	if req.EndDate != nil {
		if endDate, err = time.Parse("2006-01-02", *req.EndDate); err != nil {
			return nil, ErrSemesterDateInvalid
		}
	}
	if !endDate.After(beginDate) {
		return nil, ErrSemesterDateInvalid
	}

	// semester_id 创建后不再重算
	semester.BeginDate = beginDate
	semester.EndDate = endDate
	if err := s.repo.Semester.Update(ctx, semester); err != nil {
		s.logger.Error("更新学期失败", zap.String("semester_id", semesterID), zap.Error(err))
		return nil, err
	}
	return toSemesterResponse(semester), nil
}

func (s *calendarService) ListSemesters(ctx context.Context) ([]dto.SemesterResponse, error) {
	semesters, err := s.repo.Semester.List(ctx)
	if err != nil {
		s.logger.Error("列出学期失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.SemesterResponse, 0, len(semesters))
	for i := range semesters {
		result = append(result, *toSemesterResponse(&semesters[i]))
	}
	return result, nil
}

// ────────────────────── 班级 ──────────────────────

func (s *calendarService) CreateClass(ctx context.Context, req *dto.CreateClassRequest) (*dto.ClassResponse, error) {
	if !classNamePattern.MatchString(req.ClassName) {
		return nil, ErrClassNameInvalid
	}

	classID := model.NewClassID(req.Year, req.ClassName)
	if _, err := s.repo.ClassGroup.GetByID(ctx, classID); err == nil {
		return nil, ErrClassExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询班级失败", zap.Error(err))
		return nil, err
	}

	var teacher *model.User
	if req.TeacherID != nil {
		var err error
		teacher, err = s.repo.User.GetByID(ctx, *req.TeacherID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			s.logger.Error("查询教师失败", zap.Error(err))
			return nil, err
		}
		if teacher.Role != model.RoleTeacher {
			return nil, ErrTeacherInvalid
		}
		// 一位班导师至多带一个班
		if _, err := s.repo.ClassGroup.GetByTeacher(ctx, *req.TeacherID); err == nil {
			return nil, ErrTeacherHasClass
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询班导师任班失败", zap.Error(err))
			return nil, err
		}
	}

	class := &model.ClassGroup{
		ClassID:   classID,
		ClassName: req.ClassName,
		Grade:     req.Grade,
		Year:      req.Year,
		TeacherID: req.TeacherID,
	}
	if err := s.repo.ClassGroup.Create(ctx, class); err != nil {
		s.logger.Error("创建班级失败", zap.String("class_id", classID), zap.Error(err))
		return nil, err
	}
	class.Teacher = teacher
	return toClassResponse(class), nil
}

func (s *calendarService) ListClasses(ctx context.Context) ([]dto.ClassResponse, error) {
	classes, err := s.repo.ClassGroup.List(ctx)
	if err != nil {
		s.logger.Error("列出班级失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ClassResponse, 0, len(classes))
	for i := range classes {
		result = append(result, *toClassResponse(&classes[i]))
	}
	return result, nil
}

// ────────────────────── 节次 ──────────────────────

func (s *calendarService) CreatePeriod(ctx context.Context, req *dto.CreatePeriodRequest) (*dto.PeriodResponse, error) {
	beginTime, err := time.Parse("15:04", req.BeginTime)
	if err != nil {
		return nil, ErrPeriodTimeInvalid
	}
	endTime, err := time.Parse("15:04", req.EndTime)
	if err != nil {
		return nil, ErrPeriodTimeInvalid
	}
	if !endTime.After(beginTime) {
		return nil, ErrPeriodTimeInvalid
	}

	existing, err := s.repo.Period.List(ctx)
	if err != nil {
		s.logger.Error("列出节次失败", zap.Error(err))
		return nil, err
	}
	for _, p := range existing {
		if p.PeriodNumber == req.PeriodNumber {
			return nil, ErrPeriodExists
		}
	}

	period := &model.Period{
		PeriodNumber: req.PeriodNumber,
		BeginTime:    req.BeginTime,
		EndTime:      req.EndTime,
	}
	if err := s.repo.Period.Create(ctx, period); err != nil {
		s.logger.Error("创建节次失败", zap.Int("period_number", req.PeriodNumber), zap.Error(err))
		return nil, err
	}
	return toPeriodResponse(period), nil
}

func (s *calendarService) ListPeriods(ctx context.Context) ([]dto.PeriodResponse, error) {
	periods, err := s.repo.Period.List(ctx)
	if err != nil {
		s.logger.Error("列出节次失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.PeriodResponse, 0, len(periods))
	for i := range periods {
		result = append(result, *toPeriodResponse(&periods[i]))
	}
	return result, nil
}

func (s *calendarService) DaysOfWeek() []string {
	return model.DaysOfWeek
}

// ── 辅助 ──

func parseSemesterDates(begin, end string) (time.Time, time.Time, error) {
	beginDate, err := time.Parse("2006-01-02", begin)
	if err != nil {
		return time.Time{}, time.Time{}, ErrSemesterDateInvalid
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return time.Time{}, time.Time{}, ErrSemesterDateInvalid
	}
	if !endDate.After(beginDate) {
		return time.Time{}, time.Time{}, ErrSemesterDateInvalid
	}
	return beginDate, endDate, nil
}

// ── 响应转换 ──

func toSemesterResponse(sem *model.Semester) *dto.SemesterResponse {
	term, _ := strconv.Atoi(sem.Term)
	return &dto.SemesterResponse{
		SemesterID: sem.SemesterID,
		Year:       sem.Year,
		Term:       term,
		BeginDate:  sem.BeginDate.Format("2006-01-02"),
		EndDate:    sem.EndDate.Format("2006-01-02"),
	}
}

func toClassResponse(class *model.ClassGroup) *dto.ClassResponse {
	resp := &dto.ClassResponse{
		ClassID:   class.ClassID,
		ClassName: class.ClassName,
		Grade:     class.Grade,
		Year:      class.Year,
		TeacherID: class.TeacherID,
	}
	if class.Teacher != nil {
		resp.Teacher = &class.Teacher.Name
	}
	return resp
}

func toPeriodResponse(p *model.Period) *dto.PeriodResponse {
	return &dto.PeriodResponse{
		PeriodNumber: p.PeriodNumber,
		BeginTime:    p.BeginTime,
		EndTime:      p.EndTime,
	}
}
