package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/clin92154/school-system/internal/dto"
	"github.com/clin92154/school-system/internal/model"
	"github.com/clin92154/school-system/internal/repository"
)

// ── 用户模块业务错误 ──

var (
	ErrUserExists       = errors.New("用户编号已存在")
	ErrStudentNotFound  = errors.New("学生不存在")
	ErrGuardianNotFound = errors.New("尚未设置监护人信息")
	ErrBirthdayInvalid  = errors.New("生日格式错误，应为 YYYY-MM-DD")
)

// UserService 用户业务接口
type UserService interface {
	// Create 建立用户（管理员）。未指定密码时按生日生成初始密码。
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.CreateUserResponse, error)
	GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	// GetStudentDetail 查询学生明细（教师、管理员）
	GetStudentDetail(ctx context.Context, studentID string) (*dto.UserResponse, error)
	ListClassStudents(ctx context.Context, classID string) ([]dto.StudentBrief, error)
	GetGuardian(ctx context.Context, studentID string) (*dto.GuardianResponse, error)
	// UpsertGuardian 学生维护自己的监护人信息，guardian_id 首次创建时派生
	UpsertGuardian(ctx context.Context, studentID string, req *dto.UpdateGuardianRequest) (*dto.GuardianResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.CreateUserResponse, error) {
	birthday, err := time.Parse("2006-01-02", req.Birthday)
	if err != nil {
		return nil, ErrBirthdayInvalid
	}

	if _, err := s.repo.User.GetByID(ctx, req.UserID); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if req.ClassID != nil {
		if _, err := s.repo.ClassGroup.GetByID(ctx, *req.ClassID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrClassNotFound
			}
			return nil, err
		}
	}
	if req.SemesterID != nil {
		if _, err := s.repo.Semester.GetByID(ctx, *req.SemesterID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSemesterNotFound
			}
			return nil, err
		}
	}

	initialPassword := model.DefaultPassword(birthday)
	hash, err := bcrypt.GenerateFromPassword([]byte(initialPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码散列失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		UserID:       req.UserID,
		Name:         req.Name,
		EngName:      req.EngName,
		Birthday:     birthday,
		Gender:       req.Gender,
		Role:         req.Role,
		ClassID:      req.ClassID,
		SemesterID:   req.SemesterID,
		PasswordHash: string(hash),
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, err
	}

	return &dto.CreateUserResponse{
		UserID:          user.UserID,
		Name:            user.Name,
		InitialPassword: initialPassword,
	}, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 角色创建后不再变更，这里也不提供入口
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.EngName != nil {
		user.EngName = req.EngName
	}
	if req.Birthday != nil {
		birthday, err := time.Parse("2006-01-02", *req.Birthday)
		if err != nil {
			return nil, ErrBirthdayInvalid
		}
		user.Birthday = birthday
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.ClassID != nil {
		if _, err := s.repo.ClassGroup.GetByID(ctx, *req.ClassID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrClassNotFound
			}
			return nil, err
		}
		user.ClassID = req.ClassID
	}
	if req.SemesterID != nil {
		if _, err := s.repo.Semester.GetByID(ctx, *req.SemesterID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSemesterNotFound
			}
			return nil, err
		}
		user.SemesterID = req.SemesterID
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) GetStudentDetail(ctx context.Context, studentID string) (*dto.UserResponse, error) {
	student, err := s.repo.User.GetStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}
	return toUserResponse(student), nil
}

func (s *userService) ListClassStudents(ctx context.Context, classID string) ([]dto.StudentBrief, error) {
	if _, err := s.repo.ClassGroup.GetByID(ctx, classID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		s.logger.Error("查询班级失败", zap.Error(err))
		return nil, err
	}

	students, err := s.repo.User.ListStudentsByClass(ctx, classID)
	if err != nil {
		s.logger.Error("列出班级学生失败", zap.String("class_id", classID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.StudentBrief, 0, len(students))
	for i := range students {
		result = append(result, dto.StudentBrief{
			UserID:  students[i].UserID,
			Name:    students[i].Name,
			EngName: students[i].EngName,
		})
	}
	return result, nil
}

func (s *userService) GetGuardian(ctx context.Context, studentID string) (*dto.GuardianResponse, error) {
	guardian, err := s.repo.Guardian.GetByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuardianNotFound
		}
		s.logger.Error("查询监护人失败", zap.Error(err))
		return nil, err
	}
	return toGuardianResponse(guardian), nil
}

func (s *userService) UpsertGuardian(ctx context.Context, studentID string, req *dto.UpdateGuardianRequest) (*dto.GuardianResponse, error) {
	guardian, err := s.repo.Guardian.GetByStudent(ctx, studentID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询监护人失败", zap.Error(err))
			return nil, err
		}
		guardian = &model.Guardian{
			GuardianID: model.NewGuardianID(studentID),
			StudentID:  studentID,
		}
	}

	guardian.Name = req.Name
	guardian.PhoneNumber = req.PhoneNumber
	guardian.Relationship = req.Relationship
	guardian.Address = req.Address

	if err := s.repo.Guardian.Upsert(ctx, guardian); err != nil {
		s.logger.Error("保存监护人失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	return toGuardianResponse(guardian), nil
}

// ── 响应转换 ──

func toUserResponse(user *model.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		UserID:   user.UserID,
		Name:     user.Name,
		EngName:  user.EngName,
		Birthday: user.Birthday.Format("2006-01-02"),
		Gender:   user.Gender,
		Role:     user.Role,
	}
	if user.Class != nil {
		resp.Class = &dto.ClassBrief{
			ClassID:   user.Class.ClassID,
			ClassName: user.Class.ClassName,
			Grade:     user.Class.Grade,
		}
	}
	return resp
}

func toGuardianResponse(g *model.Guardian) *dto.GuardianResponse {
	return &dto.GuardianResponse{
		GuardianID:   g.GuardianID,
		StudentID:    g.StudentID,
		Name:         g.Name,
		PhoneNumber:  g.PhoneNumber,
		Relationship: g.Relationship,
		Address:      g.Address,
	}
}
