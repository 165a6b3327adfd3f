package model

import "encoding/json"

// 视频可见性
const (
	PrivacyPublic  = "PUBLIC"
	PrivacyPrivate = "PRIVATE"
)

// 视频生命周期状态
const (
	StatusProcessing = "PROCESSING"
	StatusPublished  = "PUBLISHED"
	StatusDisabled   = "DISABLED"
)

// ParsePrivacy 解析可见性取值，非法值回落到PUBLIC
func ParsePrivacy(s string) string {
	if s == PrivacyPrivate {
		return PrivacyPrivate
	}
	return PrivacyPublic
}

// ValidStatus 判断状态取值是否合法
func ValidStatus(s string) bool {
	switch s {
	case StatusProcessing, StatusPublished, StatusDisabled:
		return true
	}
	return false
}

type Video struct {
	BaseModel
	UploaderID uint64 `gorm:"not null;index"`
	Title      string `gorm:"not null"`
	// TEXT类型，最长65535字符
	Description   string `gorm:"type:text"`
	FilePath      string `gorm:"not null"`
	ThumbnailPath string
	Duration      uint    // 秒
	FileSize      uint64  // 字节
	CategoryID    *uint64 `gorm:"index"`

	Privacy string `gorm:"not null;default:PUBLIC"`
	Status  string `gorm:"not null;default:PROCESSING"`

	ViewCount    uint64 `gorm:"default:0"`
	LikeCount    uint64 `gorm:"default:0"`
	DislikeCount uint64 `gorm:"default:0"`

	// JSON数组，形如 ["go","tutorial"]
	Tags string `gorm:"type:json"`

	Uploader User      `gorm:"foreignKey:UploaderID;references:ID"`
	Category *Category `gorm:"foreignKey:CategoryID"`
}

func (Video) TableName() string {
	return "videos"
}

// SetTags 把标签切片序列化进Tags列
func (v *Video) SetTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	data, _ := json.Marshal(tags)
	v.Tags = string(data)
}

// TagList 反序列化Tags列，列为空或坏数据时返回空切片
func (v *Video) TagList() []string {
	if v.Tags == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(v.Tags), &tags); err != nil {
		return []string{}
	}
	return tags
}
