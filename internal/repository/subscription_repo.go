package repository

import (
	"clipnest/internal/model"

	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	Exists(subscriberID, creatorID uint64) (bool, error)
	Create(sub *model.Subscription) error
	Delete(subscriberID, creatorID uint64) error
	CountByCreator(creatorID uint64) (int64, error)
	CountBySubscriber(subscriberID uint64) (int64, error)
	FindBySubscriber(subscriberID uint64) ([]model.Subscription, error)
	// 清掉该用户作为订阅者和作为创作者的全部订阅关系
	DeleteByUser(userID uint64) error

	WithTx(tx *gorm.DB) SubscriptionRepository
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) WithTx(tx *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: tx}
}

func (r *subscriptionRepository) Exists(subscriberID, creatorID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("subscriber_id = ? AND creator_id = ?", subscriberID, creatorID).
		Count(&count).Error
	return count > 0, err
}

func (r *subscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *subscriptionRepository) Delete(subscriberID, creatorID uint64) error {
	return r.db.Unscoped().
		Where("subscriber_id = ? AND creator_id = ?", subscriberID, creatorID).
		Delete(&model.Subscription{}).Error
}

func (r *subscriptionRepository) DeleteByUser(userID uint64) error {
	return r.db.Unscoped().
		Where("subscriber_id = ? OR creator_id = ?", userID, userID).
		Delete(&model.Subscription{}).Error
}

func (r *subscriptionRepository) CountByCreator(creatorID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("creator_id = ?", creatorID).Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) CountBySubscriber(subscriberID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("subscriber_id = ?", subscriberID).Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) FindBySubscriber(subscriberID uint64) ([]model.Subscription, error) {
	var subs []model.Subscription
	err := r.db.Preload("Creator").
		Where("subscriber_id = ?", subscriberID).
		Order("created_at desc").Find(&subs).Error
	return subs, err
}
