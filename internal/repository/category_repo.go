package repository

import (
	"clipnest/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	Save(category *model.Category) error
	FindByID(categoryID uint64) (*model.Category, error)
	ExistsByName(name string) (bool, error)
	FindAll() ([]model.Category, error)
	Search(keyword string) ([]model.Category, error)
	Delete(categoryID uint64) error

	WithTx(tx *gorm.DB) CategoryRepository
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) WithTx(tx *gorm.DB) CategoryRepository {
	return &categoryRepository{db: tx}
}

func (r *categoryRepository) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepository) Save(category *model.Category) error {
	return r.db.Save(category).Error
}

func (r *categoryRepository) FindByID(categoryID uint64) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, categoryID).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ExistsByName(name string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Category{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Order("name asc").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Search(keyword string) ([]model.Category, error) {
	var categories []model.Category
	like := "%" + keyword + "%"
	err := r.db.Where("name LIKE ? OR description LIKE ?", like, like).
		Order("name asc").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Delete(categoryID uint64) error {
	return r.db.Unscoped().Delete(&model.Category{}, categoryID).Error
}
