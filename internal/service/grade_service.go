package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clin92154/school-system/internal/dto"
	"github.com/clin92154/school-system/internal/model"
	"github.com/clin92154/school-system/internal/repository"
)

// ── 成绩模块业务错误 ──

var (
	ErrGradeStudentNotInCourse = errors.New("学生不在该课程名单中")
	ErrNoGrades                = errors.New("暂无成绩记录")
	ErrExportGenerateFail      = errors.New("生成 Excel 文件失败")
)

// GradeService 成绩业务接口
//
// 设计说明：
//   - 成绩录入整批在同一事务内执行，任一学生不在名单中即整批回滚
//   - 排名不落库：每次查询时按 average 降序（空值最低）即时计算，
//     并列时按学号升序，名次 1..N 连续
type GradeService interface {
	// InputGrades 批量录入课程成绩（教师，仅限本人课程）
	InputGrades(ctx context.Context, teacherID, courseID string, req *dto.InputGradesRequest) error
	// CourseRank 课程成绩排名视图（教师，仅限本人课程）
	CourseRank(ctx context.Context, teacherID, courseID string) ([]dto.GradeRankResponse, error)
	// MyGrades 学生查询自己全部课程成绩
	MyGrades(ctx context.Context, studentID string) ([]dto.StudentGradeResponse, error)
	// SemesterGrades 学生查询指定学期成绩与学期平均
	SemesterGrades(ctx context.Context, studentID, semesterID string) (*dto.SemesterGradesResponse, error)
	// GradeHistory 按学期（年份、学期别升序）分组的历史成绩
	GradeHistory(ctx context.Context, studentID string) ([]dto.SemesterGradesResponse, error)
	// ExportCourseGrades 导出课程成绩排名为 Excel
	ExportCourseGrades(ctx context.Context, teacherID, courseID string) (*bytes.Buffer, string, error)
}

type gradeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGradeService 创建 GradeService 实例
func NewGradeService(repo *repository.Repository, logger *zap.Logger) GradeService {
	return &gradeService{repo: repo, logger: logger}
}

// ────────────────────── InputGrades ──────────────────────

func (s *gradeService) InputGrades(ctx context.Context, teacherID, courseID string, req *dto.InputGradesRequest) error {
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

	for _, item := range req.Grades {
		enrollment, err := txRepo.Enrollment.GetByCourseAndStudent(ctx, courseID, item.StudentID)
		if err != nil {
			if tx != nil {
				tx.Rollback()
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrGradeStudentNotInCourse, item.StudentID)
			}
			s.logger.Error("查询选课记录失败", zap.String("student_id", item.StudentID), zap.Error(err))
			return err
		}

		enrollment.MiddleScore = item.MiddleScore
		enrollment.FinalScore = item.FinalScore
		enrollment.ComputeAverage()

		if err := txRepo.Enrollment.Update(ctx, enrollment); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("更新成绩失败", zap.String("student_id", item.StudentID), zap.Error(err))
			return err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}
	return nil
}

// ────────────────────── CourseRank ──────────────────────

func (s *gradeService) CourseRank(ctx context.Context, teacherID, courseID string) ([]dto.GradeRankResponse, error) {
	if _, err := s.repo.Course.GetByIDForTeacher(ctx, courseID, teacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}

	enrollments, err := s.repo.Enrollment.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("列出选课记录失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	ranked := rankEnrollments(enrollments)
	result := make([]dto.GradeRankResponse, 0, len(ranked))
	for rank, e := range ranked {
		item := dto.GradeRankResponse{
			Rank:        rank + 1,
			StudentID:   e.StudentID,
			MiddleScore: e.MiddleScore,
			FinalScore:  e.FinalScore,
			Average:     e.Average,
		}
		if e.Student != nil {
			item.StudentName = e.Student.Name
		}
		result = append(result, item)
	}
	return result, nil
}

// ────────────────────── 学生视角 ──────────────────────

func (s *gradeService) MyGrades(ctx context.Context, studentID string) ([]dto.StudentGradeResponse, error) {
	enrollments, err := s.repo.Enrollment.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("列出学生成绩失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.StudentGradeResponse, 0, len(enrollments))
	for i := range enrollments {
		row := toStudentGradeResponse(&enrollments[i])
		if rank, err := s.rankInCourse(ctx, enrollments[i].CourseID, studentID); err == nil && rank > 0 {
			row.Rank = &rank
		}
		result = append(result, *row)
	}
	return result, nil
}

func (s *gradeService) SemesterGrades(ctx context.Context, studentID, semesterID string) (*dto.SemesterGradesResponse, error) {
	enrollments, err := s.repo.Enrollment.ListByStudentAndSemester(ctx, studentID, semesterID)
	if err != nil {
		s.logger.Error("列出学期成绩失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	if len(enrollments) == 0 {
		return nil, ErrNoGrades
	}
	return buildSemesterGrades(semesterID, enrollments), nil
}

func (s *gradeService) GradeHistory(ctx context.Context, studentID string) ([]dto.SemesterGradesResponse, error) {
	enrollments, err := s.repo.Enrollment.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("列出学生成绩失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	bySemester := make(map[string][]model.Enrollment)
	for i := range enrollments {
		bySemester[enrollments[i].SemesterID] = append(bySemester[enrollments[i].SemesterID], enrollments[i])
	}

	semesterIDs := make([]string, 0, len(bySemester))
	for id := range bySemester {
		semesterIDs = append(semesterIDs, id)
	}
	// semester_id 为 "<年份>-<学期别>"，字典序即时间序
	sort.Strings(semesterIDs)

	result := make([]dto.SemesterGradesResponse, 0, len(semesterIDs))
	for _, id := range semesterIDs {
		result = append(result, *buildSemesterGrades(id, bySemester[id]))
	}
	return result, nil
}

// ────────────────────── ExportCourseGrades ──────────────────────

func (s *gradeService) ExportCourseGrades(ctx context.Context, teacherID, courseID string) (*bytes.Buffer, string, error) {
	course, err := s.repo.Course.GetByIDForTeacher(ctx, courseID, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, "", err
	}

	rows, err := s.CourseRank(ctx, teacherID, courseID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "成绩表"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		s.logger.Error("创建 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"排名", "学号", "姓名", "期中", "期末", "平均"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}

	for i, row := range rows {
		values := []interface{}{row.Rank, row.StudentID, row.StudentName,
			scoreCell(row.MiddleScore), scoreCell(row.FinalScore), scoreCell(row.Average)}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写出 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("%s-%s-成绩表.xlsx", course.SemesterID, course.Name)
	return buf, filename, nil
}

// ── 排名计算 ──

// rankEnrollments 按 average 降序排序（空值最低），并列按学号升序。
// 返回的切片下标即名次减一。
func rankEnrollments(enrollments []model.Enrollment) []model.Enrollment {
	ranked := make([]model.Enrollment, len(enrollments))
	copy(ranked, enrollments)
	sort.SliceStable(ranked, func(i, j int) bool {
		ai, aj := ranked[i].Average, ranked[j].Average
		switch {
		case ai == nil && aj == nil:
			return ranked[i].StudentID < ranked[j].StudentID
		case ai == nil:
			return false
		case aj == nil:
			return true
		case *ai != *aj:
			return *ai > *aj
		default:
			return ranked[i].StudentID < ranked[j].StudentID
		}
	})
	return ranked
}

// rankInCourse 返回学生在课程内的名次，不在名单中返回 0
func (s *gradeService) rankInCourse(ctx context.Context, courseID, studentID string) (int, error) {
	enrollments, err := s.repo.Enrollment.ListByCourse(ctx, courseID)
	if err != nil {
		return 0, err
	}
	for rank, e := range rankEnrollments(enrollments) {
		if e.StudentID == studentID {
			return rank + 1, nil
		}
	}
	return 0, nil
}

// ── 辅助 ──

// buildSemesterGrades 学期平均：空值按 0 计入
func buildSemesterGrades(semesterID string, enrollments []model.Enrollment) *dto.SemesterGradesResponse {
	courses := make([]dto.StudentGradeResponse, 0, len(enrollments))
	var sum float64
	for i := range enrollments {
		courses = append(courses, *toStudentGradeResponse(&enrollments[i]))
		if enrollments[i].Average != nil {
			sum += *enrollments[i].Average
		}
	}
	avg := sum / float64(len(enrollments))
	return &dto.SemesterGradesResponse{
		SemesterID:      semesterID,
		Courses:         courses,
		SemesterAverage: &avg,
	}
}

func toStudentGradeResponse(e *model.Enrollment) *dto.StudentGradeResponse {
	row := &dto.StudentGradeResponse{
		CourseID:    e.CourseID,
		SemesterID:  e.SemesterID,
		MiddleScore: e.MiddleScore,
		FinalScore:  e.FinalScore,
		Average:     e.Average,
	}
	if e.Course != nil {
		row.CourseName = e.Course.Name
		if e.Course.Teacher != nil {
			row.TeacherName = e.Course.Teacher.Name
		}
	}
	return row
}

func scoreCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
