package model

// 订阅关系，订阅者不能等于创作者，由service把关
type Subscription struct {
	BaseModel
	SubscriberID uint64 `gorm:"not null;uniqueIndex:idx_subscriber_creator"`
	CreatorID    uint64 `gorm:"not null;uniqueIndex:idx_subscriber_creator"`

	Creator User `gorm:"foreignKey:CreatorID"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
