package model

type Playlist struct {
	BaseModel
	UserID          uint64 `gorm:"not null;index"`
	Name            string `gorm:"not null"`
	Description     string `gorm:"type:text"`
	Privacy         string `gorm:"not null;default:PUBLIC"`
	IsCollaborative bool   `gorm:"default:false"`

	User User `gorm:"foreignKey:UserID"`
}

func (Playlist) TableName() string {
	return "playlists"
}

// 播放列表条目。位置不变式：每个列表内position从1开始连续编号，
// 删除和重排后由service负责重新编号
type PlaylistVideo struct {
	BaseModel
	PlaylistID uint64 `gorm:"not null;uniqueIndex:idx_playlist_video"`
	VideoID    uint64 `gorm:"not null;uniqueIndex:idx_playlist_video"`
	Position   int    `gorm:"not null"`

	Video Video `gorm:"foreignKey:VideoID"`
}

func (PlaylistVideo) TableName() string {
	return "playlist_videos"
}
