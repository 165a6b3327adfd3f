package repository

import (
	"clipnest/internal/model"

	"gorm.io/gorm"
)

type WatchLaterRepository interface {
	Create(entry *model.WatchLater) error
	Exists(userID, videoID uint64) (bool, error)
	Delete(userID, videoID uint64) error
	FindByUser(userID uint64) ([]model.WatchLater, error)
	Clear(userID uint64) error
	DeleteByVideoID(videoID uint64) error

	WithTx(tx *gorm.DB) WatchLaterRepository
}

type watchLaterRepository struct {
	db *gorm.DB
}

func NewWatchLaterRepository(db *gorm.DB) WatchLaterRepository {
	return &watchLaterRepository{db: db}
}

func (r *watchLaterRepository) WithTx(tx *gorm.DB) WatchLaterRepository {
	return &watchLaterRepository{db: tx}
}

func (r *watchLaterRepository) Create(entry *model.WatchLater) error {
	return r.db.Create(entry).Error
}

func (r *watchLaterRepository) Exists(userID, videoID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&model.WatchLater{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Count(&count).Error
	return count > 0, err
}

func (r *watchLaterRepository) Delete(userID, videoID uint64) error {
	return r.db.Unscoped().
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Delete(&model.WatchLater{}).Error
}

func (r *watchLaterRepository) FindByUser(userID uint64) ([]model.WatchLater, error) {
	var entries []model.WatchLater
	err := r.db.Preload("Video").Preload("Video.Uploader").
		Where("user_id = ?", userID).
		Order("created_at desc").Find(&entries).Error
	return entries, err
}

func (r *watchLaterRepository) Clear(userID uint64) error {
	return r.db.Unscoped().Where("user_id = ?", userID).Delete(&model.WatchLater{}).Error
}

func (r *watchLaterRepository) DeleteByVideoID(videoID uint64) error {
	return r.db.Unscoped().Where("video_id = ?", videoID).Delete(&model.WatchLater{}).Error
}
