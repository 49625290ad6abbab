package service

import (
	"go.uber.org/zap"

	"github.com/clin92154/school-system/config"
	"github.com/clin92154/school-system/internal/repository"
	"github.com/clin92154/school-system/pkg/jwt"
	"github.com/clin92154/school-system/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth     AuthService
	User     UserService
	Calendar CalendarService
	Course   CourseService
	Grade    GradeService
	Leave    LeaveService
	Category CategoryService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:     NewUserService(repo, logger),
		Calendar: NewCalendarService(repo, logger),
		Course:   NewCourseService(repo, logger),
		Grade:    NewGradeService(repo, logger),
		Leave:    NewLeaveService(repo, logger),
		Category: NewCategoryService(repo, logger),
	}
}
