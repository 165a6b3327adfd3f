package model

import (
	"time"

	"gorm.io/gorm"
)

// gorm自带的gorm.Model里ID是uint类型，统一成uint64，所以自己定义基础结构体
type BaseModel struct {
	ID        uint64 `gorm:"primarykey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
