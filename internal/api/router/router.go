package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clin92154/school-system/config"
	"github.com/clin92154/school-system/internal/api/handler"
	"github.com/clin92154/school-system/internal/api/middleware"
	"github.com/clin92154/school-system/pkg/jwt"
	"github.com/clin92154/school-system/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录接口限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/reset-password", h.Auth.ResetPassword)

			// 用户与监护人模块
			users := authorized.Group("/users")
			{
				users.POST("", middleware.RoleAuth("admin"), h.User.CreateUser)
				users.GET("/profile", h.User.GetProfile)
				users.PUT("/profile", h.User.UpdateProfile)
				users.GET("/guardian", middleware.RoleAuth("student"), h.User.GetGuardian)
				users.PUT("/guardian", middleware.RoleAuth("student"), h.User.UpsertGuardian)
			}
			authorized.GET("/students/:id", middleware.RoleAuth("teacher", "admin"), h.User.GetStudentDetail)

			// 校历模块：学期、班级、节次
			semesters := authorized.Group("/semesters")
			{
				semesters.GET("", h.Calendar.ListSemesters)
				semesters.POST("", middleware.RoleAuth("admin"), h.Calendar.CreateSemester)
				semesters.PUT("/:id", middleware.RoleAuth("admin"), h.Calendar.UpdateSemester)
			}
			classes := authorized.Group("/classes")
			{
				classes.GET("", h.Calendar.ListClasses)
				classes.POST("", middleware.RoleAuth("admin"), h.Calendar.CreateClass)
				classes.GET("/:id/students", middleware.RoleAuth("teacher", "admin"), h.User.ListClassStudents)
			}
			periods := authorized.Group("/periods")
			{
				periods.GET("", h.Calendar.ListPeriods)
				periods.POST("", middleware.RoleAuth("admin"), h.Calendar.CreatePeriod)
			}
			authorized.GET("/days-of-week", h.Calendar.ListDaysOfWeek)

			// 课程模块
			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Course.ListCourses)
				courses.POST("", middleware.RoleAuth("teacher"), h.Course.CreateCourse)
				courses.GET("/schedule/:semester_id", h.Course.GetSchedule)
				courses.GET("/:id", h.Course.GetCourse)
				courses.PUT("/:id", middleware.RoleAuth("teacher"), h.Course.UpdateCourse)
				courses.DELETE("/:id", middleware.RoleAuth("teacher"), h.Course.DeleteCourse)
				courses.GET("/:id/students", middleware.RoleAuth("teacher"), h.Course.ListCourseStudents)

				// 成绩模块（教师侧，挂在课程下）
				courses.POST("/:id/grades", middleware.RoleAuth("teacher"), h.Grade.InputGrades)
				courses.GET("/:id/rank", middleware.RoleAuth("teacher"), h.Grade.CourseRank)
				courses.GET("/:id/grades/export", middleware.RoleAuth("teacher"), h.Grade.ExportCourseGrades)
			}

			// 成绩模块（学生侧）
			grades := authorized.Group("/grades", middleware.RoleAuth("student"))
			{
				grades.GET("", h.Grade.MyGrades)
				grades.GET("/history", h.Grade.GradeHistory)
				grades.GET("/semester/:semester_id", h.Grade.SemesterGrades)
			}

			// 请假模块
			leaves := authorized.Group("/leaves")
			{
				leaves.GET("", h.Leave.ListLeaves)
				leaves.POST("", middleware.RoleAuth("student"), h.Leave.ApplyLeave)
				leaves.GET("/:id", h.Leave.GetLeave)
				leaves.PUT("/:id/decision", middleware.RoleAuth("teacher"), h.Leave.DecideLeave)
			}
			authorized.GET("/leave-types", h.Leave.ListLeaveTypes)

			// 功能目录
			authorized.GET("/categories", h.Category.Menu)
		}
	}

	return r
}
