package dto

// ── 请假模块 DTO ──

// CreateLeaveRequest 学生提交请假申请请求
type CreateLeaveRequest struct {
	LeaveTypeID uint   `json:"leave_type_id" binding:"required"`
	Reason      string `json:"reason"        binding:"required,min=1,max=500"`
	StartDate   string `json:"start_date"    binding:"required"` // "2024-11-25"
	EndDate     string `json:"end_date"      binding:"required"`
	Periods     []int  `json:"periods"       binding:"required,min=1,dive,min=1,max=20"`
}

// DecideLeaveRequest 审批请假申请请求（班主任）
type DecideLeaveRequest struct {
	Status string  `json:"status" binding:"required,oneof=approved rejected"`
	Remark *string `json:"remark" binding:"omitempty,max=500"`
}

// LeaveTypeResponse 请假类型响应
type LeaveTypeResponse struct {
	ID       uint   `json:"id"`
	TypeName string `json:"type_name"`
}

// LeaveResponse 请假申请响应
type LeaveResponse struct {
	LeaveID      string  `json:"leave_id"`
	StudentID    string  `json:"student_id"`
	StudentName  string  `json:"student_name,omitempty"`
	LeaveType    string  `json:"leave_type"`
	Reason       string  `json:"reason"`
	ApplyDate    string  `json:"apply_date"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Periods      []int   `json:"periods"`
	Status       string  `json:"status"`
	ApprovedBy   *string `json:"approved_by,omitempty"`
	ApproverName string  `json:"approver_name,omitempty"`
	ApprovedDate *string `json:"approved_date,omitempty"`
	Remark       *string `json:"remark,omitempty"`
}
