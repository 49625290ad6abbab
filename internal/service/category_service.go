package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/clin92154/school-system/internal/dto"
	"github.com/clin92154/school-system/internal/model"
	"github.com/clin92154/school-system/internal/repository"
)

// CategoryService 功能目录业务接口
type CategoryService interface {
	// Menu 按角色过滤的导航目录树：排除另一角色专属的条目，
	// 子目录 URL 为 "<父URL>/<子URL>"
	Menu(ctx context.Context, role string) ([]dto.CategoryResponse, error)
}

type categoryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCategoryService 创建 CategoryService 实例
func NewCategoryService(repo *repository.Repository, logger *zap.Logger) CategoryService {
	return &categoryService{repo: repo, logger: logger}
}

func (s *categoryService) Menu(ctx context.Context, role string) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.Category.List(ctx)
	if err != nil {
		s.logger.Error("列出功能目录失败", zap.Error(err))
		return nil, err
	}

	// 非教师排除教师专属条目，反之亦然
	excludeRole := "teachers"
	if role == model.RoleTeacher {
		excludeRole = "students"
	}

	visible := func(c *model.Category) bool {
		return c.Roles == nil || *c.Roles != excludeRole
	}

	childrenOf := make(map[uint][]model.Category)
	var parents []model.Category
	for _, c := range categories {
		if c.ParentID == nil {
			parents = append(parents, c)
		} else {
			childrenOf[*c.ParentID] = append(childrenOf[*c.ParentID], c)
		}
	}

	result := make([]dto.CategoryResponse, 0, len(parents))
	for i := range parents {
		p := &parents[i]
		if !visible(p) {
			continue
		}
		node := dto.CategoryResponse{ID: p.ID, Name: p.Name, URL: p.URL}
		for j := range childrenOf[p.ID] {
			c := &childrenOf[p.ID][j]
			if !visible(c) {
				continue
			}
			childURL := composeURL(p.URL, c.URL)
			node.Children = append(node.Children, dto.CategoryResponse{
				ID:   c.ID,
				Name: c.Name,
				URL:  childURL,
			})
		}
		result = append(result, node)
	}
	return result, nil
}

func composeURL(parent, child *string) *string {
	if child == nil {
		return nil
	}
	if parent == nil {
		return child
	}
	u := *parent + "/" + *child
	return &u
}
