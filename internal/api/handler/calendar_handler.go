package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/clin92154/school-system/internal/dto"
	"github.com/clin92154/school-system/internal/service"
	"github.com/clin92154/school-system/pkg/response"
)

// CalendarHandler 校历模块 HTTP 处理器：学期、班级、节次
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// ── 学期 ──

// CreateSemester 创建学期（管理员）
// POST /api/v1/semesters
func (h *CalendarHandler) CreateSemester(c *gin.Context) {
	var req dto.CreateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	semester, err := h.calendarSvc.CreateSemester(c.Request.Context(), &req)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.Created(c, semester)
}

// UpdateSemester 更新学期起止日期（管理员）
// PUT /api/v1/semesters/:id
func (h *CalendarHandler) UpdateSemester(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学期ID不能为空")
		return
	}

	var req dto.UpdateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	semester, err := h.calendarSvc.UpdateSemester(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, semester)
}

// ListSemesters 学期列表
// GET /api/v1/semesters
func (h *CalendarHandler) ListSemesters(c *gin.Context) {
	semesters, err := h.calendarSvc.ListSemesters(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": semesters})
}

// ── 班级 ──

// CreateClass 创建班级（管理员）
// POST /api/v1/classes
func (h *CalendarHandler) CreateClass(c *gin.Context) {
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	class, err := h.calendarSvc.CreateClass(c.Request.Context(), &req)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.Created(c, class)
}

// ListClasses 班级列表
// GET /api/v1/classes
func (h *CalendarHandler) ListClasses(c *gin.Context) {
	classes, err := h.calendarSvc.ListClasses(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": classes})
}

// ── 节次与星期 ──

// CreatePeriod 创建节次（管理员）
// POST /api/v1/periods
func (h *CalendarHandler) CreatePeriod(c *gin.Context) {
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	period, err := h.calendarSvc.CreatePeriod(c.Request.Context(), &req)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.Created(c, period)
}

// ListPeriods 节次列表
// GET /api/v1/periods
func (h *CalendarHandler) ListPeriods(c *gin.Context) {
	periods, err := h.calendarSvc.ListPeriods(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": periods})
}

// ListDaysOfWeek 星期列表
// GET /api/v1/days-of-week
func (h *CalendarHandler) ListDaysOfWeek(c *gin.Context) {
	response.OK(c, gin.H{"list": h.calendarSvc.DaysOfWeek()})
}

// handleCalendarError 统一处理校历模块业务错误
func (h *CalendarHandler) handleCalendarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, 13001, "学期不存在")
	case errors.Is(err, service.ErrSemesterDateInvalid):
		response.BadRequest(c, 13002, "学期日期无效")
	case errors.Is(err, service.ErrSemesterExists):
		response.Conflict(c, 13003, "学期已存在")
	case errors.Is(err, service.ErrClassNotFound):
		response.NotFound(c, 13004, "班级不存在")
	case errors.Is(err, service.ErrClassNameInvalid):
		response.BadRequest(c, 13005, "班级名称必须为单个大写字母")
	case errors.Is(err, service.ErrClassExists):
		response.Conflict(c, 13006, "班级已存在")
	case errors.Is(err, service.ErrTeacherHasClass):
		response.Conflict(c, 13007, "该教师已担任其他班级的班导师")
	case errors.Is(err, service.ErrTeacherInvalid):
		response.BadRequest(c, 13008, "班导师必须为教师角色")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "用户不存在")
	case errors.Is(err, service.ErrPeriodExists):
		response.Conflict(c, 13009, "节次已存在")
	case errors.Is(err, service.ErrPeriodTimeInvalid):
		response.BadRequest(c, 13010, "节次时间无效")
	default:
		response.InternalError(c)
	}
}
