package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/clin92154/school-system/internal/dto"
	"github.com/clin92154/school-system/internal/service"
	"github.com/clin92154/school-system/pkg/response"
)

// LeaveHandler 请假模块 HTTP 处理器
type LeaveHandler struct {
	leaveSvc service.LeaveService
}

// NewLeaveHandler 创建 LeaveHandler
func NewLeaveHandler(leaveSvc service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveSvc: leaveSvc}
}

// ApplyLeave 学生提交请假申请
// POST /api/v1/leaves
func (h *LeaveHandler) ApplyLeave(c *gin.Context) {
	var req dto.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	leave, err := h.leaveSvc.Apply(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.Created(c, leave)
}

// DecideLeave 班导师审批请假申请
// PUT /api/v1/leaves/:id/decision
func (h *LeaveHandler) DecideLeave(c *gin.Context) {
	leaveID := c.Param("id")
	if leaveID == "" {
		response.BadRequest(c, 10001, "请假单号不能为空")
		return
	}

	var req dto.DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	leave, err := h.leaveSvc.Decide(c.Request.Context(), teacherID, leaveID, &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, leave)
}

// GetLeave 请假申请明细
// GET /api/v1/leaves/:id
func (h *LeaveHandler) GetLeave(c *gin.Context) {
	leaveID := c.Param("id")
	if leaveID == "" {
		response.BadRequest(c, 10001, "请假单号不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	leave, err := h.leaveSvc.Detail(c.Request.Context(), userID, role, leaveID)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, leave)
}

// ListLeaves 请假申请列表（教师看本班，学生看本人）
// GET /api/v1/leaves
func (h *LeaveHandler) ListLeaves(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	leaves, err := h.leaveSvc.List(c.Request.Context(), userID, role)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, gin.H{"list": leaves})
}

// ListLeaveTypes 请假类型列表
// GET /api/v1/leave-types
func (h *LeaveHandler) ListLeaveTypes(c *gin.Context) {
	types, err := h.leaveSvc.ListLeaveTypes(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": types})
}

// handleLeaveError 统一处理请假模块业务错误
func (h *LeaveHandler) handleLeaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLeaveNotFound):
		response.NotFound(c, 16001, "请假申请不存在")
	case errors.Is(err, service.ErrLeaveTypeNotFound):
		response.NotFound(c, 16002, "请假类型不存在")
	case errors.Is(err, service.ErrLeaveDateInvalid):
		response.BadRequest(c, 16003, "请假日期无效")
	case errors.Is(err, service.ErrLeaveAlreadyDecided):
		response.Conflict(c, 16004, "请假申请已审批，不可重复操作")
	case errors.Is(err, service.ErrLeaveForbidden):
		response.Forbidden(c, 16005, "无权查看或审批该请假申请")
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 14004, "节次不存在")
	default:
		response.InternalError(c)
	}
}
