package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/clin92154/school-system/internal/dto"
	"github.com/clin92154/school-system/internal/service"
	"github.com/clin92154/school-system/pkg/response"
)

// GradeHandler 成绩模块 HTTP 处理器
type GradeHandler struct {
	gradeSvc service.GradeService
}

// NewGradeHandler 创建 GradeHandler
func NewGradeHandler(gradeSvc service.GradeService) *GradeHandler {
	return &GradeHandler{gradeSvc: gradeSvc}
}

// InputGrades 批量录入课程成绩（教师）
// POST /api/v1/courses/:id/grades
func (h *GradeHandler) InputGrades(c *gin.Context) {
	courseID := c.Param("id")
	if courseID == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	var req dto.InputGradesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.gradeSvc.InputGrades(c.Request.Context(), teacherID, courseID, &req); err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, nil)
}

// CourseRank 课程成绩排名（教师）
// GET /api/v1/courses/:id/rank
func (h *GradeHandler) CourseRank(c *gin.Context) {
	courseID := c.Param("id")
	if courseID == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	rank, err := h.gradeSvc.CourseRank(c.Request.Context(), teacherID, courseID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": rank})
}

// MyGrades 学生查询全部课程成绩
// GET /api/v1/grades
func (h *GradeHandler) MyGrades(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	grades, err := h.gradeSvc.MyGrades(c.Request.Context(), studentID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": grades})
}

// SemesterGrades 学生查询指定学期成绩
// GET /api/v1/grades/semester/:semester_id
func (h *GradeHandler) SemesterGrades(c *gin.Context) {
	semesterID := c.Param("semester_id")
	if semesterID == "" {
		response.BadRequest(c, 10001, "学期ID不能为空")
		return
	}

	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	grades, err := h.gradeSvc.SemesterGrades(c.Request.Context(), studentID, semesterID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, grades)
}

// GradeHistory 学生按学期分组的历史成绩
// GET /api/v1/grades/history
func (h *GradeHandler) GradeHistory(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	history, err := h.gradeSvc.GradeHistory(c.Request.Context(), studentID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": history})
}

// ExportCourseGrades 导出课程成绩为 Excel（教师）
// GET /api/v1/courses/:id/grades/export
func (h *GradeHandler) ExportCourseGrades(c *gin.Context) {
	courseID := c.Param("id")
	if courseID == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.gradeSvc.ExportCourseGrades(c.Request.Context(), teacherID, courseID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// handleGradeError 统一处理成绩模块业务错误
func (h *GradeHandler) handleGradeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 14001, "课程不存在")
	case errors.Is(err, service.ErrGradeStudentNotInCourse):
		response.NotFound(c, 15001, "学生不在该课程名单中")
	case errors.Is(err, service.ErrNoGrades):
		response.NotFound(c, 15002, "暂无成绩记录")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
