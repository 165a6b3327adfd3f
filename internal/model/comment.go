package model

type Comment struct {
	BaseModel
	VideoID uint64 `gorm:"not null;index"`
	UserID  uint64 `gorm:"not null;index"`
	Content string `gorm:"type:text;not null"`

	Pinned   bool `gorm:"default:false"`
	Spam     bool `gorm:"default:false"`
	Disabled bool `gorm:"default:false"`

	// 指针的零值是nil，以此区分一级评论和回复；回复的父评论必须属于同一个视频
	ParentID *uint64 `gorm:"index"`

	User User `gorm:"foreignKey:UserID"`
}

func (Comment) TableName() string {
	return "comments"
}

// 评论点赞关系，联合唯一索引保证一个用户对一条评论只能点一次赞
type CommentLike struct {
	BaseModel
	CommentID uint64 `gorm:"not null;uniqueIndex:idx_comment_user"`
	UserID    uint64 `gorm:"not null;uniqueIndex:idx_comment_user"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
