package dto

// ── 成绩模块 DTO ──

// GradeItemRequest 单个学生的成绩录入项
type GradeItemRequest struct {
	StudentID   string   `json:"student_id"   binding:"required"`
	MiddleScore *float64 `json:"middle_score" binding:"omitempty,min=0,max=100"`
	FinalScore  *float64 `json:"final_score"  binding:"omitempty,min=0,max=100"`
}

// InputGradesRequest 批量成绩录入请求（教师，整体成功或整体失败）
type InputGradesRequest struct {
	Grades []GradeItemRequest `json:"grades" binding:"required,min=1,dive"`
}

// GradeResponse 单条成绩响应
type GradeResponse struct {
	StudentID   string   `json:"student_id"`
	StudentName string   `json:"student_name,omitempty"`
	MiddleScore *float64 `json:"middle_score"`
	FinalScore  *float64 `json:"final_score"`
	Average     *float64 `json:"average"`
}

// GradeRankResponse 课程排名响应项
type GradeRankResponse struct {
	Rank        int      `json:"rank"`
	StudentID   string   `json:"student_id"`
	StudentName string   `json:"student_name"`
	MiddleScore *float64 `json:"middle_score"`
	FinalScore  *float64 `json:"final_score"`
	Average     *float64 `json:"average"`
}

// StudentGradeResponse 学生视角的课程成绩响应项
type StudentGradeResponse struct {
	CourseID    string   `json:"course_id"`
	CourseName  string   `json:"course_name"`
	TeacherName string   `json:"teacher_name,omitempty"`
	SemesterID  string   `json:"semester_id"`
	MiddleScore *float64 `json:"middle_score"`
	FinalScore  *float64 `json:"final_score"`
	Average     *float64 `json:"average"`
	Rank        *int     `json:"rank,omitempty"` // 课程内排名，按需计算
}

// SemesterGradesResponse 学期成绩汇总响应
type SemesterGradesResponse struct {
	SemesterID      string                 `json:"semester_id"`
	Courses         []StudentGradeResponse `json:"courses"`
	SemesterAverage *float64               `json:"semester_average"`
}
