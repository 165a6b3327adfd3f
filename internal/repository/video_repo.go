package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"clipnest/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type VideoRepository interface {
	Create(video *model.Video) error
	Save(video *model.Video) error
	Delete(videoID uint64) error
	FindByID(videoID uint64) (*model.Video, error)

	// 原子自增，避免读-改-写的丢失更新
	IncrementViewCount(videoID uint64) error
	// 点赞/点踩计数每次切换后从ratings表全量重算，这里只负责落盘
	UpdateRatingCounts(videoID, likeCount, dislikeCount uint64) error

	FindPublic() ([]model.Video, error)
	FindLatest(limit int) ([]model.Video, error)
	FindTopRated(limit int) ([]model.Video, error)
	FindByCategory(categoryID uint64) ([]model.Video, error)
	// publicOnly决定是否只返回公开已发布的视频（非所有者视角）
	FindByUploader(uploaderID uint64, publicOnly bool) ([]model.Video, error)
	Search(keyword string, categoryID uint64) ([]model.Video, error)
	FindRelated(categoryID *uint64, excludeID uint64, limit int) ([]model.Video, error)
	CountByStatus(status string) (int64, error)

	GetVideoCache(videoID uint64) (*model.Video, error)
	SetVideoCache(video *model.Video) error
	InvalidateVideoCache(videoID uint64) error

	WithTx(tx *gorm.DB) VideoRepository
}

type videoRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewVideoRepository(db *gorm.DB, rdb *redis.Client) VideoRepository {
	return &videoRepository{db: db, rdb: rdb}
}

// WithTx 返回绑定到事务的一次性实例，事务中不碰Redis
func (r *videoRepository) WithTx(tx *gorm.DB) VideoRepository {
	return &videoRepository{db: tx}
}

func (r *videoRepository) Create(video *model.Video) error {
	return r.db.Create(video).Error
}

func (r *videoRepository) Save(video *model.Video) error {
	return r.db.Save(video).Error
}

func (r *videoRepository) Delete(videoID uint64) error {
	return r.db.Unscoped().Delete(&model.Video{}, videoID).Error
}

func (r *videoRepository) FindByID(videoID uint64) (*model.Video, error) {
	var video model.Video
	err := r.db.Preload("Uploader").Preload("Category").First(&video, videoID).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) IncrementViewCount(videoID uint64) error {
	// UPDATE `videos` SET `view_count` = `view_count` + 1 WHERE id = ?
	return r.db.Model(&model.Video{}).Where("id = ?", videoID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

func (r *videoRepository) UpdateRatingCounts(videoID, likeCount, dislikeCount uint64) error {
	return r.db.Model(&model.Video{}).Where("id = ?", videoID).
		UpdateColumns(map[string]interface{}{
			"like_count":    likeCount,
			"dislike_count": dislikeCount,
		}).Error
}

func (r *videoRepository) publicScope() *gorm.DB {
	return r.db.Where("privacy = ? AND status = ?", model.PrivacyPublic, model.StatusPublished)
}

func (r *videoRepository) FindPublic() ([]model.Video, error) {
	var videos []model.Video
	err := r.publicScope().Preload("Uploader").Preload("Category").
		Order("created_at desc").Find(&videos).Error
	return videos, err
}

func (r *videoRepository) FindLatest(limit int) ([]model.Video, error) {
	var videos []model.Video
	err := r.publicScope().Preload("Uploader").
		Order("created_at desc").Limit(limit).Find(&videos).Error
	return videos, err
}

func (r *videoRepository) FindTopRated(limit int) ([]model.Video, error) {
	var videos []model.Video
	err := r.publicScope().Preload("Uploader").
		Order("like_count desc, created_at desc").Limit(limit).Find(&videos).Error
	return videos, err
}

func (r *videoRepository) FindByCategory(categoryID uint64) ([]model.Video, error) {
	var videos []model.Video
	err := r.publicScope().Preload("Uploader").
		Where("category_id = ?", categoryID).
		Order("created_at desc").Find(&videos).Error
	return videos, err
}

func (r *videoRepository) FindByUploader(uploaderID uint64, publicOnly bool) ([]model.Video, error) {
	q := r.db.Preload("Category")
	if publicOnly {
		q = q.Where("privacy = ? AND status = ?", model.PrivacyPublic, model.StatusPublished)
	}
	var videos []model.Video
	err := q.Where("uploader_id = ?", uploaderID).Order("created_at desc").Find(&videos).Error
	return videos, err
}

// Search 在标题、简介和标签JSON里做关键字匹配，categoryID为0时不过滤分类
func (r *videoRepository) Search(keyword string, categoryID uint64) ([]model.Video, error) {
	q := r.publicScope().Preload("Uploader")
	if keyword != "" {
		like := "%" + keyword + "%"
		q = q.Where("title LIKE ? OR description LIKE ? OR tags LIKE ?", like, like, like)
	}
	if categoryID > 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	var videos []model.Video
	err := q.Order("created_at desc").Find(&videos).Error
	return videos, err
}

func (r *videoRepository) FindRelated(categoryID *uint64, excludeID uint64, limit int) ([]model.Video, error) {
	q := r.publicScope().Preload("Uploader").Where("id <> ?", excludeID)
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	var videos []model.Video
	err := q.Order("view_count desc").Limit(limit).Find(&videos).Error
	return videos, err
}

func (r *videoRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Video{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *videoRepository) keyVideoInfo(videoID uint64) string {
	return fmt.Sprintf("video:info:%d", videoID)
}

// GetVideoCache 从Redis缓存取单个视频，缓存不存在返回(nil, nil)
func (r *videoRepository) GetVideoCache(videoID uint64) (*model.Video, error) {
	if r.rdb == nil {
		return nil, nil
	}
	videoJSON, err := r.rdb.Get(context.Background(), r.keyVideoInfo(videoID)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	var video model.Video
	if err := json.Unmarshal([]byte(videoJSON), &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// SetVideoCache 写缓存，过期时间加随机抖动防止缓存雪崩
func (r *videoRepository) SetVideoCache(video *model.Video) error {
	if r.rdb == nil {
		return nil
	}
	videoJSON, err := json.Marshal(video)
	if err != nil {
		return err
	}
	expiration := time.Minute*5 + time.Duration(rand.Intn(60))*time.Second
	return r.rdb.Set(context.Background(), r.keyVideoInfo(video.ID), videoJSON, expiration).Err()
}

func (r *videoRepository) InvalidateVideoCache(videoID uint64) error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Del(context.Background(), r.keyVideoInfo(videoID)).Err()
}
