package repository

import (
	"errors"

	"clipnest/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository interface {
	// 找不到时返回(nil, nil)
	FindByVideoAndUser(videoID, userID uint64) (*model.Rating, error)
	Create(rating *model.Rating) error
	UpdateType(ratingID uint64, ratingType string) error
	Delete(ratingID uint64) error
	CountByType(videoID uint64, ratingType string) (int64, error)
	DeleteByVideoID(videoID uint64) error
	// 用户评过分的视频ID列表，用户级联删除后重算这些视频的计数
	FindVideoIDsByUser(userID uint64) ([]uint64, error)
	DeleteByUserID(userID uint64) error

	// 1-5星评分
	UpsertStar(videoID, userID uint64, score uint8) error
	StarSummary(videoID uint64) (avg float64, count int64, err error)
	FindStarByVideoAndUser(videoID, userID uint64) (*model.VideoUserRating, error)
	DeleteStarsByVideoID(videoID uint64) error
	DeleteStarsByUserID(userID uint64) error

	WithTx(tx *gorm.DB) RatingRepository
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) WithTx(tx *gorm.DB) RatingRepository {
	return &ratingRepository{db: tx}
}

func (r *ratingRepository) FindByVideoAndUser(videoID, userID uint64) (*model.Rating, error) {
	var rating model.Rating
	err := r.db.Where("video_id = ? AND user_id = ?", videoID, userID).First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) Create(rating *model.Rating) error {
	return r.db.Create(rating).Error
}

func (r *ratingRepository) UpdateType(ratingID uint64, ratingType string) error {
	return r.db.Model(&model.Rating{}).Where("id = ?", ratingID).
		UpdateColumn("rating_type", ratingType).Error
}

func (r *ratingRepository) Delete(ratingID uint64) error {
	return r.db.Unscoped().Delete(&model.Rating{}, ratingID).Error
}

func (r *ratingRepository) CountByType(videoID uint64, ratingType string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Rating{}).
		Where("video_id = ? AND rating_type = ?", videoID, ratingType).
		Count(&count).Error
	return count, err
}

func (r *ratingRepository) DeleteByVideoID(videoID uint64) error {
	return r.db.Unscoped().Where("video_id = ?", videoID).Delete(&model.Rating{}).Error
}

func (r *ratingRepository) FindVideoIDsByUser(userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&model.Rating{}).
		Where("user_id = ?", userID).
		Pluck("video_id", &ids).Error
	return ids, err
}

func (r *ratingRepository) DeleteByUserID(userID uint64) error {
	return r.db.Unscoped().Where("user_id = ?", userID).Delete(&model.Rating{}).Error
}

// UpsertStar 按(video_id, user_id)唯一键做插入或更新
func (r *ratingRepository) UpsertStar(videoID, userID uint64, score uint8) error {
	star := &model.VideoUserRating{VideoID: videoID, UserID: userID, Score: score}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "video_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"score": score}),
	}).Create(star).Error
}

func (r *ratingRepository) StarSummary(videoID uint64) (float64, int64, error) {
	type row struct {
		Avg   float64
		Count int64
	}
	var result row
	err := r.db.Model(&model.VideoUserRating{}).
		Select("COALESCE(AVG(score), 0) as avg, COUNT(*) as count").
		Where("video_id = ?", videoID).
		Scan(&result).Error
	return result.Avg, result.Count, err
}

func (r *ratingRepository) FindStarByVideoAndUser(videoID, userID uint64) (*model.VideoUserRating, error) {
	var star model.VideoUserRating
	err := r.db.Where("video_id = ? AND user_id = ?", videoID, userID).First(&star).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &star, nil
}

func (r *ratingRepository) DeleteStarsByVideoID(videoID uint64) error {
	return r.db.Unscoped().Where("video_id = ?", videoID).Delete(&model.VideoUserRating{}).Error
}

func (r *ratingRepository) DeleteStarsByUserID(userID uint64) error {
	return r.db.Unscoped().Where("user_id = ?", userID).Delete(&model.VideoUserRating{}).Error
}
