package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/clin92154/school-system/internal/dto"
	"github.com/clin92154/school-system/internal/service"
	"github.com/clin92154/school-system/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// CreateUser 建立用户（管理员）
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.userSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.Created(c, result)
}

// GetProfile 当前用户个人资料
// GET /api/v1/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	profile, err := h.userSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, profile)
}

// UpdateProfile 更新个人资料
// PUT /api/v1/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	profile, err := h.userSvc.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, profile)
}

// GetStudentDetail 学生明细（教师、管理员）
// GET /api/v1/students/:id
func (h *UserHandler) GetStudentDetail(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学号不能为空")
		return
	}

	student, err := h.userSvc.GetStudentDetail(c.Request.Context(), id)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, student)
}

// ListClassStudents 班级学生名单
// GET /api/v1/classes/:id/students
func (h *UserHandler) ListClassStudents(c *gin.Context) {
	classID := c.Param("id")
	if classID == "" {
		response.BadRequest(c, 10001, "班级ID不能为空")
		return
	}

	students, err := h.userSvc.ListClassStudents(c.Request.Context(), classID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, gin.H{"list": students})
}

// GetGuardian 查询本人监护人信息（学生）
// GET /api/v1/users/guardian
func (h *UserHandler) GetGuardian(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	guardian, err := h.userSvc.GetGuardian(c.Request.Context(), userID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, guardian)
}

// UpsertGuardian 维护本人监护人信息（学生）
// PUT /api/v1/users/guardian
func (h *UserHandler) UpsertGuardian(c *gin.Context) {
	var req dto.UpdateGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	guardian, err := h.userSvc.UpsertGuardian(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, guardian)
}

// handleUserError 统一处理用户模块业务错误
func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "用户不存在")
	case errors.Is(err, service.ErrUserExists):
		response.Conflict(c, 12002, "用户编号已存在")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 12003, "学生不存在")
	case errors.Is(err, service.ErrGuardianNotFound):
		response.NotFound(c, 12004, "尚未设置监护人信息")
	case errors.Is(err, service.ErrBirthdayInvalid):
		response.BadRequest(c, 12005, "生日格式错误")
	case errors.Is(err, service.ErrClassNotFound):
		response.NotFound(c, 13004, "班级不存在")
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, 13001, "学期不存在")
	default:
		response.InternalError(c)
	}
}
