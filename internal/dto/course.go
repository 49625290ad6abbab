package dto

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程请求（教师）
type CreateCourseRequest struct {
	Name        string  `json:"name"         binding:"required,min=1,max=100"`
	Description *string `json:"description"  binding:"omitempty,max=500"`
	ClassID     string  `json:"class_id"     binding:"required"`
	SemesterID  string  `json:"semester_id"  binding:"required"`
	DayOfWeek   string  `json:"day_of_week"  binding:"required"`
	Periods     []int   `json:"periods"      binding:"required,min=1,dive,min=1,max=20"`
}

// UpdateCourseRequest 更新课程请求（教师，仅限本人课程）
type UpdateCourseRequest struct {
	Name        *string `json:"name"         binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"  binding:"omitempty,max=500"`
	SemesterID  *string `json:"semester_id"`
	DayOfWeek   *string `json:"day_of_week"`
	Periods     []int   `json:"periods"      binding:"omitempty,min=1,dive,min=1,max=20"`
}

// CourseListRequest 课程列表查询参数
type CourseListRequest struct {
	SemesterID string `form:"semester_id"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	CourseID    string      `json:"course_id"`
	Name        string      `json:"name"`
	Description *string     `json:"description,omitempty"`
	TeacherID   string      `json:"teacher_id"`
	TeacherName string      `json:"teacher_name,omitempty"`
	Class       *ClassBrief `json:"class,omitempty"`
	SemesterID  string      `json:"semester_id"`
	DayOfWeek   string      `json:"day_of_week"`
	Periods     []int       `json:"periods"`
}

// CourseStudentResponse 课程学生名单响应项
type CourseStudentResponse struct {
	StudentID string  `json:"student_id"`
	Name      string  `json:"name"`
	EngName   *string `json:"eng_name,omitempty"`
}
