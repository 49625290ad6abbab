package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/clin92154/school-system/internal/service"
	"github.com/clin92154/school-system/pkg/response"
)

// CategoryHandler 功能目录 HTTP 处理器
type CategoryHandler struct {
	categorySvc service.CategoryService
}

// NewCategoryHandler 创建 CategoryHandler
func NewCategoryHandler(categorySvc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categorySvc: categorySvc}
}

// Menu 按角色过滤的导航目录
// GET /api/v1/categories
func (h *CategoryHandler) Menu(c *gin.Context) {
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	menu, err := h.categorySvc.Menu(c.Request.Context(), role)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": menu})
}
