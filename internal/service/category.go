package service

import (
	"strings"

	"clipnest/internal/apperr"
	"clipnest/internal/model"
	"clipnest/internal/repository"
)

type CategoryService interface {
	Create(name, description string) (*model.Category, error)
	Get(categoryID uint64) (*model.Category, error)
	List() ([]model.Category, error)
	Search(keyword string) ([]model.Category, error)
	Update(categoryID uint64, name, description string) (*model.Category, error)
	// Delete 分类下还有视频时拒绝删除
	Delete(categoryID uint64) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	videoRepo    repository.VideoRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository, videoRepo repository.VideoRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, videoRepo: videoRepo}
}

func (s *categoryService) Create(name, description string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("分类名称不能为空")
	}
	exists, err := s.categoryRepo.ExistsByName(name)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if exists {
		return nil, apperr.Conflict("分类名称已存在")
	}
	category := &model.Category{Name: name, Description: description}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, apperr.Wrap(err, "", "分类名称已存在")
	}
	return category, nil
}

func (s *categoryService) Get(categoryID uint64) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(categoryID)
	if err != nil {
		return nil, apperr.Wrap(err, "分类不存在", "")
	}
	return category, nil
}

func (s *categoryService) List() ([]model.Category, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

func (s *categoryService) Search(keyword string) ([]model.Category, error) {
	categories, err := s.categoryRepo.Search(strings.TrimSpace(keyword))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

func (s *categoryService) Update(categoryID uint64, name, description string) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(categoryID)
	if err != nil {
		return nil, apperr.Wrap(err, "分类不存在", "")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("分类名称不能为空")
	}
	if name != category.Name {
		exists, err := s.categoryRepo.ExistsByName(name)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if exists {
			return nil, apperr.Conflict("分类名称已存在")
		}
	}
	category.Name = name
	category.Description = description
	if err := s.categoryRepo.Save(category); err != nil {
		return nil, apperr.Wrap(err, "", "分类名称已存在")
	}
	return category, nil
}

func (s *categoryService) Delete(categoryID uint64) error {
	if _, err := s.categoryRepo.FindByID(categoryID); err != nil {
		return apperr.Wrap(err, "分类不存在", "")
	}
	videos, err := s.videoRepo.FindByCategory(categoryID)
	if err != nil {
		return apperr.Internal(err)
	}
	if len(videos) > 0 {
		return apperr.Conflict("分类下还有视频，不能删除")
	}
	if err := s.categoryRepo.Delete(categoryID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
