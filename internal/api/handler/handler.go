package handler

import "github.com/clin92154/school-system/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Calendar *CalendarHandler
	Course   *CourseHandler
	Grade    *GradeHandler
	Leave    *LeaveHandler
	Category *CategoryHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		User:     NewUserHandler(svc.User),
		Calendar: NewCalendarHandler(svc.Calendar),
		Course:   NewCourseHandler(svc.Course),
		Grade:    NewGradeHandler(svc.Grade),
		Leave:    NewLeaveHandler(svc.Leave),
		Category: NewCategoryHandler(svc.Category),
	}
}
