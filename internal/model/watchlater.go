package model

// 稍后再看条目，无序保存列表，一个(用户,视频)对至多一行。
// 加入时间就是CreatedAt
type WatchLater struct {
	BaseModel
	UserID  uint64 `gorm:"not null;uniqueIndex:idx_user_video_wl"`
	VideoID uint64 `gorm:"not null;uniqueIndex:idx_user_video_wl"`

	Video Video `gorm:"foreignKey:VideoID"`
}

func (WatchLater) TableName() string {
	return "watch_later"
}
