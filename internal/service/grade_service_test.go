package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/clin92154/school-system/internal/dto"
	"github.com/clin92154/school-system/internal/model"
)

// ── 测试辅助 ──

// setupTestGradeService 预置课程 C0000001（教师 T001，班级 2024-A，三名学生）
func setupTestGradeService() (GradeService, *testRepos) {
	tr := newTestRepos()

	classID := "2024-A"
	tr.semesters.semesters["2024-1"] = &model.Semester{SemesterID: "2024-1", Year: 2024, Term: "1"}
	tr.classes.classes[classID] = &model.ClassGroup{ClassID: classID, ClassName: "A", Grade: 1, Year: 2024}
	tr.users.users["T001"] = &model.User{UserID: "T001", Name: "王老师", Role: model.RoleTeacher}
	for _, sid := range []string{"S001", "S002", "S003"} {
		tr.users.users[sid] = &model.User{UserID: sid, Name: "学生" + sid, Role: model.RoleStudent, ClassID: &classID}
	}

	tr.courses.courses["C0000001"] = &model.Course{
		CourseID: "C0000001", Name: "数学", TeacherID: "T001",
		ClassID: classID, SemesterID: "2024-1", DayOfWeek: "Monday",
	}
	for _, sid := range []string{"S001", "S002", "S003"} {
		tr.enrollments.FirstOrCreate(context.Background(), &model.Enrollment{
			CourseID: "C0000001", StudentID: sid, SemesterID: "2024-1",
		})
	}

	svc := NewGradeService(tr.repo, zap.NewNop())
	return svc, tr
}

func floatPtr(v float64) *float64 { return &v }

// ── InputGrades 测试 ──

func TestGradeService_InputGrades_ComputesAverage(t *testing.T) {
	svc, tr := setupTestGradeService()

	err := svc.InputGrades(context.Background(), "T001", "C0000001", &dto.InputGradesRequest{
		Grades: []dto.GradeItemRequest{
			{StudentID: "S001", MiddleScore: floatPtr(80), FinalScore: floatPtr(90)},
		},
	})
	if err != nil {
		t.Fatalf("录入成绩失败: %v", err)
	}

	e, _ := tr.enrollments.GetByCourseAndStudent(context.Background(), "C0000001", "S001")
	if e.Average == nil || *e.Average != 85 {
		t.Errorf("期望平均分 85，实际=%v", e.Average)
	}
}

// 仅有单边分数时 average 必须保持 NULL
func TestGradeService_InputGrades_PartialScoreNilAverage(t *testing.T) {
	svc, tr := setupTestGradeService()

	err := svc.InputGrades(context.Background(), "T001", "C0000001", &dto.InputGradesRequest{
		Grades: []dto.GradeItemRequest{
			{StudentID: "S001", MiddleScore: floatPtr(80)},
		},
	})
	if err != nil {
		t.Fatalf("录入成绩失败: %v", err)
	}

	e, _ := tr.enrollments.GetByCourseAndStudent(context.Background(), "C0000001", "S001")
	if e.MiddleScore == nil || *e.MiddleScore != 80 {
		t.Errorf("期望期中 80，实际=%v", e.MiddleScore)
	}
	if e.Average != nil {
		t.Errorf("单边分数时平均分应为空，实际=%v", *e.Average)
	}
}

func TestGradeService_InputGrades_StudentNotInCourse(t *testing.T) {
	svc, _ := setupTestGradeService()

	err := svc.InputGrades(context.Background(), "T001", "C0000001", &dto.InputGradesRequest{
		Grades: []dto.GradeItemRequest{
			{StudentID: "S001", MiddleScore: floatPtr(80), FinalScore: floatPtr(90)},
			{StudentID: "S999", MiddleScore: floatPtr(70), FinalScore: floatPtr(70)},
		},
	})
	if !errors.Is(err, ErrGradeStudentNotInCourse) {
		t.Errorf("期望 ErrGradeStudentNotInCourse，实际: %v", err)
	}
}

func TestGradeService_InputGrades_OwnershipScoped(t *testing.T) {
	svc, _ := setupTestGradeService()

	err := svc.InputGrades(context.Background(), "T002", "C0000001", &dto.InputGradesRequest{
		Grades: []dto.GradeItemRequest{{StudentID: "S001", MiddleScore: floatPtr(80)}},
	})
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际: %v", err)
	}
}

// ── CourseRank 测试 ──

func seedScores(t *testing.T, svc GradeService, items []dto.GradeItemRequest) {
	t.Helper()
	if err := svc.InputGrades(context.Background(), "T001", "C0000001", &dto.InputGradesRequest{Grades: items}); err != nil {
		t.Fatalf("录入成绩失败: %v", err)
	}
}

func TestGradeService_CourseRank_OrderedByAverage(t *testing.T) {
	svc, _ := setupTestGradeService()

	seedScores(t, svc, []dto.GradeItemRequest{
		{StudentID: "S001", MiddleScore: floatPtr(70), FinalScore: floatPtr(75)}, // 72.5
		{StudentID: "S002", MiddleScore: floatPtr(80), FinalScore: floatPtr(90)}, // 85
	})

	rows, err := svc.CourseRank(context.Background(), "T001", "C0000001")
	if err != nil {
		t.Fatalf("CourseRank 失败: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("期望 3 条排名记录，实际=%d", len(rows))
	}

	// 85 > 72.5 > 空值
	if rows[0].StudentID != "S002" || rows[0].Rank != 1 {
		t.Errorf("第一名应为 S002，实际=%s(rank=%d)", rows[0].StudentID, rows[0].Rank)
	}
	if rows[1].StudentID != "S001" || rows[1].Rank != 2 {
		t.Errorf("第二名应为 S001，实际=%s(rank=%d)", rows[1].StudentID, rows[1].Rank)
	}
	if rows[2].StudentID != "S003" || rows[2].Rank != 3 {
		t.Errorf("无分数学生应排最后，实际=%s(rank=%d)", rows[2].StudentID, rows[2].Rank)
	}
	if rows[2].Average != nil {
		t.Errorf("无分数学生平均分应为空，实际=%v", *rows[2].Average)
	}
}

// 并列按学号升序，名次仍连续递增
func TestGradeService_CourseRank_TieBrokenByStudentID(t *testing.T) {
	svc, _ := setupTestGradeService()

	seedScores(t, svc, []dto.GradeItemRequest{
		{StudentID: "S003", MiddleScore: floatPtr(80), FinalScore: floatPtr(90)},
		{StudentID: "S001", MiddleScore: floatPtr(85), FinalScore: floatPtr(85)},
		{StudentID: "S002", MiddleScore: floatPtr(90), FinalScore: floatPtr(80)},
	})

	rows, err := svc.CourseRank(context.Background(), "T001", "C0000001")
	if err != nil {
		t.Fatalf("CourseRank 失败: %v", err)
	}

	want := []string{"S001", "S002", "S003"}
	for i, sid := range want {
		if rows[i].StudentID != sid {
			t.Errorf("并列时第 %d 名应为 %s，实际=%s", i+1, sid, rows[i].StudentID)
		}
		if rows[i].Rank != i+1 {
			t.Errorf("名次应连续，位置 %d 期望 rank=%d，实际=%d", i, i+1, rows[i].Rank)
		}
	}
}

// ── 学生视角测试 ──

func TestGradeService_MyGrades_IncludesRank(t *testing.T) {
	svc, _ := setupTestGradeService()

	seedScores(t, svc, []dto.GradeItemRequest{
		{StudentID: "S001", MiddleScore: floatPtr(70), FinalScore: floatPtr(75)},
		{StudentID: "S002", MiddleScore: floatPtr(80), FinalScore: floatPtr(90)},
	})

	rows, err := svc.MyGrades(context.Background(), "S001")
	if err != nil {
		t.Fatalf("MyGrades 失败: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("期望 1 条成绩记录，实际=%d", len(rows))
	}
	if rows[0].Rank == nil || *rows[0].Rank != 2 {
		t.Errorf("期望课程内排名 2，实际=%v", rows[0].Rank)
	}
}

func TestGradeService_SemesterGrades_NullCountedAsZero(t *testing.T) {
	svc, tr := setupTestGradeService()

	// S001：本学期两门课，一门 85 分、一门无成绩，学期平均 = (85+0)/2
	seedScores(t, svc, []dto.GradeItemRequest{
		{StudentID: "S001", MiddleScore: floatPtr(80), FinalScore: floatPtr(90)},
	})
	tr.enrollments.FirstOrCreate(context.Background(), &model.Enrollment{
		CourseID: "C0000002", StudentID: "S001", SemesterID: "2024-1",
	})

	resp, err := svc.SemesterGrades(context.Background(), "S001", "2024-1")
	if err != nil {
		t.Fatalf("SemesterGrades 失败: %v", err)
	}
	if len(resp.Courses) != 2 {
		t.Fatalf("期望 2 门课程，实际=%d", len(resp.Courses))
	}
	if resp.SemesterAverage == nil || *resp.SemesterAverage != 42.5 {
		t.Errorf("期望学期平均 42.5，实际=%v", resp.SemesterAverage)
	}
}

func TestGradeService_SemesterGrades_Empty(t *testing.T) {
	svc, _ := setupTestGradeService()

	_, err := svc.SemesterGrades(context.Background(), "S001", "2099-1")
	if !errors.Is(err, ErrNoGrades) {
		t.Errorf("期望 ErrNoGrades，实际: %v", err)
	}
}

func TestGradeService_GradeHistory_GroupedBySemester(t *testing.T) {
	svc, tr := setupTestGradeService()

	seedScores(t, svc, []dto.GradeItemRequest{
		{StudentID: "S001", MiddleScore: floatPtr(80), FinalScore: floatPtr(90)},
	})
	// 上一学年的历史记录
	tr.enrollments.FirstOrCreate(context.Background(), &model.Enrollment{
		CourseID: "C0000009", StudentID: "S001", SemesterID: "2023-2",
		MiddleScore: floatPtr(60), FinalScore: floatPtr(70), Average: floatPtr(65),
	})

	history, err := svc.GradeHistory(context.Background(), "S001")
	if err != nil {
		t.Fatalf("GradeHistory 失败: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("期望 2 个学期分组，实际=%d", len(history))
	}
	if history[0].SemesterID != "2023-2" || history[1].SemesterID != "2024-1" {
		t.Errorf("学期应按时间升序，实际=%s, %s", history[0].SemesterID, history[1].SemesterID)
	}
	if history[0].SemesterAverage == nil || *history[0].SemesterAverage != 65 {
		t.Errorf("期望 2023-2 学期平均 65，实际=%v", history[0].SemesterAverage)
	}
}

// ── 导出测试 ──

func TestGradeService_ExportCourseGrades(t *testing.T) {
	svc, _ := setupTestGradeService()

	seedScores(t, svc, []dto.GradeItemRequest{
		{StudentID: "S001", MiddleScore: floatPtr(80), FinalScore: floatPtr(90)},
	})

	buf, filename, err := svc.ExportCourseGrades(context.Background(), "T001", "C0000001")
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if buf == nil || buf.Len() == 0 {
		t.Error("导出内容不应为空")
	}
	if !strings.HasSuffix(filename, ".xlsx") || !strings.Contains(filename, "2024-1") {
		t.Errorf("文件名格式不符: %s", filename)
	}
}

func TestGradeService_ExportCourseGrades_OwnershipScoped(t *testing.T) {
	svc, _ := setupTestGradeService()

	_, _, err := svc.ExportCourseGrades(context.Background(), "T002", "C0000001")
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际: %v", err)
	}
}
