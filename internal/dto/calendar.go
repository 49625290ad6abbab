package dto

// ── 校历模块 DTO（学期 / 班级 / 节次）──

// CreateSemesterRequest 创建学期请求（管理员）
type CreateSemesterRequest struct {
	Year      int    `json:"year"       binding:"required,min=2000,max=2100"`
	Term      int    `json:"term"       binding:"required,oneof=1 2"`
	BeginDate string `json:"begin_date" binding:"required"` // "2026-09-01"
	EndDate   string `json:"end_date"   binding:"required"` // "2027-01-15"
}

// UpdateSemesterRequest 更新学期起止日期请求
type UpdateSemesterRequest struct {
	BeginDate *string `json:"begin_date"`
	EndDate   *string `json:"end_date"`
}

// CreateClassRequest 创建班级请求（管理员）
type CreateClassRequest struct {
	ClassName string  `json:"class_name" binding:"required,len=1"`
	Grade     int     `json:"grade"      binding:"required,min=1,max=12"`
	Year      int     `json:"year"       binding:"required,min=2000,max=2100"`
	TeacherID *string `json:"teacher_id"`
}

// CreatePeriodRequest 创建节次请求（管理员）
type CreatePeriodRequest struct {
	PeriodNumber int    `json:"period_number" binding:"required,min=1,max=20"`
	BeginTime    string `json:"begin_time"    binding:"required"` // "08:00"
	EndTime      string `json:"end_time"      binding:"required"` // "08:50"
}

// SemesterResponse 学期信息响应
type SemesterResponse struct {
	SemesterID string `json:"semester_id"`
	Year       int    `json:"year"`
	Term       int    `json:"term"`
	BeginDate  string `json:"begin_date"`
	EndDate    string `json:"end_date"`
}

// ClassResponse 班级信息响应
type ClassResponse struct {
	ClassID   string  `json:"class_id"`
	ClassName string  `json:"class_name"`
	Grade     int     `json:"grade"`
	Year      int     `json:"year"`
	Teacher   *string `json:"teacher_name,omitempty"`
	TeacherID *string `json:"teacher_id,omitempty"`
}

// ClassBrief 班级简要信息
type ClassBrief struct {
	ClassID   string `json:"class_id"`
	ClassName string `json:"class_name"`
	Grade     int    `json:"grade"`
}

// PeriodResponse 节次信息响应
type PeriodResponse struct {
	PeriodNumber int    `json:"period_number"`
	BeginTime    string `json:"begin_time"`
	EndTime      string `json:"end_time"`
}
