package model

// 二值评价类型
const (
	RatingLike    = "LIKE"
	RatingDislike = "DISLIKE"
)

func ValidRatingType(s string) bool {
	return s == RatingLike || s == RatingDislike
}

// 点赞/点踩关系，一个(视频,用户)对至多一行
type Rating struct {
	BaseModel
	VideoID uint64 `gorm:"not null;uniqueIndex:idx_video_user"`
	UserID  uint64 `gorm:"not null;uniqueIndex:idx_video_user"`
	Type    string `gorm:"column:rating_type;not null"`
}

func (Rating) TableName() string {
	return "ratings"
}

// 独立于点赞的1-5星评分，同样一个(视频,用户)对至多一行
type VideoUserRating struct {
	BaseModel
	VideoID uint64 `gorm:"not null;uniqueIndex:idx_video_user_star"`
	UserID  uint64 `gorm:"not null;uniqueIndex:idx_video_user_star"`
	Score   uint8  `gorm:"not null"`
}

func (VideoUserRating) TableName() string {
	return "video_user_ratings"
}
