package repository

import (
	"clipnest/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	Save(user *model.User) error
	FindByID(userID uint64) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	// 登录入口既接受用户名也接受邮箱
	FindByUsernameOrEmail(login string) (*model.User, error)
	FindAll() ([]model.User, error)
	FindActive() ([]model.User, error)
	Search(keyword string) ([]model.User, error)
	CountByRole(role string) (int64, error)
	Delete(userID uint64) error

	WithTx(tx *gorm.DB) UserRepository
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) Save(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) FindByID(userID uint64) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsernameOrEmail(login string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ? OR email = ?", login, login).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll() ([]model.User, error) {
	var users []model.User
	err := r.db.Order("created_at desc").Find(&users).Error
	return users, err
}

func (r *userRepository) FindActive() ([]model.User, error) {
	var users []model.User
	err := r.db.Where("is_active = ?", true).Order("created_at desc").Find(&users).Error
	return users, err
}

func (r *userRepository) Search(keyword string) ([]model.User, error) {
	var users []model.User
	like := "%" + keyword + "%"
	err := r.db.Where("username LIKE ? OR email LIKE ?", like, like).Find(&users).Error
	return users, err
}

func (r *userRepository) CountByRole(role string) (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// Delete 硬删除用户行本身，关联内容的级联由service在事务里处理
func (r *userRepository) Delete(userID uint64) error {
	return r.db.Unscoped().Delete(&model.User{}, userID).Error
}
