package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clin92154/school-system/internal/dto"
	"github.com/clin92154/school-system/internal/model"
	"github.com/clin92154/school-system/internal/repository"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound   = errors.New("课程不存在")
	ErrCourseConflict   = errors.New("课程时段与同教师或同班级的已有课程冲突")
	ErrDayOfWeekInvalid = errors.New("无效的星期")
	ErrPeriodNotFound   = errors.New("节次不存在")
	ErrRoleForbidden    = errors.New("当前角色无权执行此操作")
)

// CourseService 课程业务接口
type CourseService interface {
	// Create 创建课程并在同一事务内为班级每位学生建立选课记录（幂等 get-or-create）
	Create(ctx context.Context, teacherID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	// Update 更新课程，仅限课程所属教师；冲突检查排除课程自身
	Update(ctx context.Context, teacherID, courseID string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, teacherID, courseID string) error
	Get(ctx context.Context, courseID string) (*dto.CourseResponse, error)
	// List 按角色列出课程：教师看自己授课，学生看本班课程
	List(ctx context.Context, callerID, role, classID, semesterID string) ([]dto.CourseResponse, error)
	// Schedule 指定学期的周课表视图
	Schedule(ctx context.Context, callerID, role, classID, semesterID string) ([]dto.CourseResponse, error)
	// ListStudents 课程学生名单（按学号升序）
	ListStudents(ctx context.Context, teacherID, courseID string) ([]dto.CourseStudentResponse, error)
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, teacherID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	if !model.IsValidDayOfWeek(req.DayOfWeek) {
		return nil, ErrDayOfWeekInvalid
	}

	if _, err := s.repo.ClassGroup.GetByID(ctx, req.ClassID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		s.logger.Error("查询班级失败", zap.Error(err))
		return nil, err
	}
	if _, err := s.repo.Semester.GetByID(ctx, req.SemesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Error(err))
		return nil, err
	}

	periods, err := s.resolvePeriods(ctx, req.Periods)
	if err != nil {
		return nil, err
	}

	// 冲突检查：同学期同星期下，同教师或同班级的课程节次集合不得相交
	if err := s.checkConflict(ctx, req.SemesterID, req.DayOfWeek, teacherID, req.ClassID, req.Periods, ""); err != nil {
		return nil, err
	}

	course := &model.Course{
		CourseID:    model.NewCourseID(),
		Name:        req.Name,
		Description: req.Description,
		TeacherID:   teacherID,
		ClassID:     req.ClassID,
		SemesterID:  req.SemesterID,
		DayOfWeek:   req.DayOfWeek,
		Periods:     periods,
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Course.Create(ctx, course); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}

	// 为班级当前每位学生建立选课记录，重复创建是无害的
	students, err := txRepo.User.ListStudentsByClass(ctx, req.ClassID)
	if err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("列出班级学生失败", zap.Error(err))
		return nil, err
	}
	for i := range students {
		enrollment := &model.Enrollment{
			CourseID:   course.CourseID,
			StudentID:  students[i].UserID,
			SemesterID: req.SemesterID,
		}
		if err := txRepo.Enrollment.FirstOrCreate(ctx, enrollment); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("创建选课记录失败", zap.String("student_id", students[i].UserID), zap.Error(err))
			return nil, err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	return toCourseResponse(course), nil
}

// ────────────────────── Update ──────────────────────

func (s *courseService) Update(ctx context.Context, teacherID, courseID string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByIDForTeacher(ctx, courseID, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.SemesterID != nil {
		if _, err := s.repo.Semester.GetByID(ctx, *req.SemesterID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSemesterNotFound
			}
			return nil, err
		}
		course.SemesterID = *req.SemesterID
	}
	if req.DayOfWeek != nil {
		if !model.IsValidDayOfWeek(*req.DayOfWeek) {
			return nil, ErrDayOfWeekInvalid
		}
		course.DayOfWeek = *req.DayOfWeek
	}

	periodNums := course.PeriodNumbers()
	var newPeriods []model.Period
	if len(req.Periods) > 0 {
		newPeriods, err = s.resolvePeriods(ctx, req.Periods)
		if err != nil {
			return nil, err
		}
		periodNums = req.Periods
	}

	// 冲突检查排除课程自身
	if err := s.checkConflict(ctx, course.SemesterID, course.DayOfWeek, teacherID, course.ClassID, periodNums, courseID); err != nil {
		return nil, err
	}

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("更新课程失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	if newPeriods != nil {
		if err := s.repo.Course.ReplacePeriods(ctx, course, newPeriods); err != nil {
			s.logger.Error("更新课程节次失败", zap.String("course_id", courseID), zap.Error(err))
			return nil, err
		}
		course.Periods = newPeriods
	}
	return toCourseResponse(course), nil
}

// ────────────────────── Delete ──────────────────────

func (s *courseService) Delete(ctx context.Context, teacherID, courseID string) error {
	if _, err := s.repo.Course.GetByIDForTeacher(ctx, courseID, teacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)
	if err := txRepo.Enrollment.DeleteByCourse(ctx, courseID); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("删除选课记录失败", zap.String("course_id", courseID), zap.Error(err))
		return err
	}
	if err := txRepo.Course.Delete(ctx, courseID); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("删除课程失败", zap.String("course_id", courseID), zap.Error(err))
		return err
	}
	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}
	return nil
}

// ────────────────────── 查询 ──────────────────────

func (s *courseService) Get(ctx context.Context, courseID string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}
	return toCourseResponse(course), nil
}

func (s *courseService) List(ctx context.Context, callerID, role, classID, semesterID string) ([]dto.CourseResponse, error) {
	if semesterID != "" {
		if _, err := s.repo.Semester.GetByID(ctx, semesterID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSemesterNotFound
			}
			s.logger.Error("查询学期失败", zap.Error(err))
			return nil, err
		}
	}

	var (
		courses []model.Course
		err     error
	)
	switch role {
	case model.RoleTeacher:
		courses, err = s.repo.Course.ListByTeacher(ctx, callerID, semesterID)
	case model.RoleStudent:
		if classID == "" {
			return []dto.CourseResponse{}, nil
		}
		courses, err = s.repo.Course.ListByClass(ctx, classID, semesterID)
	default:
		return nil, ErrRoleForbidden
	}
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *toCourseResponse(&courses[i]))
	}
	return result, nil
}

func (s *courseService) Schedule(ctx context.Context, callerID, role, classID, semesterID string) ([]dto.CourseResponse, error) {
	if _, err := s.repo.Semester.GetByID(ctx, semesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Error(err))
		return nil, err
	}
	return s.List(ctx, callerID, role, classID, semesterID)
}

func (s *courseService) ListStudents(ctx context.Context, teacherID, courseID string) ([]dto.CourseStudentResponse, error) {
	if _, err := s.repo.Course.GetByIDForTeacher(ctx, courseID, teacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}

	enrollments, err := s.repo.Enrollment.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("列出课程学生失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseStudentResponse, 0, len(enrollments))
	for i := range enrollments {
		item := dto.CourseStudentResponse{StudentID: enrollments[i].StudentID}
		if enrollments[i].Student != nil {
			item.Name = enrollments[i].Student.Name
			item.EngName = enrollments[i].Student.EngName
		}
		result = append(result, item)
	}
	return result, nil
}

// ── 辅助 ──

// resolvePeriods 将节次编号解析为节次实体，任一编号不存在即失败
func (s *courseService) resolvePeriods(ctx context.Context, nums []int) ([]model.Period, error) {
	periods, err := s.repo.Period.ListByNumbers(ctx, nums)
	if err != nil {
		s.logger.Error("查询节次失败", zap.Error(err))
		return nil, err
	}
	if len(periods) != len(uniqueInts(nums)) {
		return nil, ErrPeriodNotFound
	}
	return periods, nil
}

// checkConflict 集合相交判定：excludeCourseID 非空时排除该课程自身
func (s *courseService) checkConflict(ctx context.Context, semesterID, dayOfWeek, teacherID, classID string, periodNums []int, excludeCourseID string) error {
	existing, err := s.repo.Course.ListBySlot(ctx, semesterID, dayOfWeek, teacherID, classID)
	if err != nil {
		s.logger.Error("查询同时段课程失败", zap.Error(err))
		return err
	}

	want := make(map[int]struct{}, len(periodNums))
	for _, n := range periodNums {
		want[n] = struct{}{}
	}
	for i := range existing {
		if existing[i].CourseID == excludeCourseID {
			continue
		}
		for _, n := range existing[i].PeriodNumbers() {
			if _, ok := want[n]; ok {
				return ErrCourseConflict
			}
		}
	}
	return nil
}

func uniqueInts(nums []int) []int {
	seen := make(map[int]struct{}, len(nums))
	out := make([]int, 0, len(nums))
	for _, n := range nums {
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}

// ── 响应转换 ──

func toCourseResponse(course *model.Course) *dto.CourseResponse {
	nums := course.PeriodNumbers()
	sort.Ints(nums)
	resp := &dto.CourseResponse{
		CourseID:    course.CourseID,
		Name:        course.Name,
		Description: course.Description,
		TeacherID:   course.TeacherID,
		SemesterID:  course.SemesterID,
		DayOfWeek:   course.DayOfWeek,
		Periods:     nums,
	}
	if course.Teacher != nil {
		resp.TeacherName = course.Teacher.Name
	}
	if course.Class != nil {
		resp.Class = &dto.ClassBrief{
			ClassID:   course.Class.ClassID,
			ClassName: course.Class.ClassName,
			Grade:     course.Class.Grade,
		}
	}
	return resp
}
