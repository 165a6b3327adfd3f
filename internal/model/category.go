package model

type Category struct {
	BaseModel
	Name        string `gorm:"unique;not null"`
	Description string `gorm:"type:text"`
}

func (Category) TableName() string {
	return "categories"
}
