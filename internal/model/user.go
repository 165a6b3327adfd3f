package model

// 用户角色
const (
	RoleAdmin          = "ADMIN"
	RoleContentCreator = "CONTENT_CREATOR"
	RoleRegisteredUser = "REGISTERED_USER"
)

// ValidRole 判断角色取值是否合法
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleContentCreator, RoleRegisteredUser:
		return true
	}
	return false
}

type User struct {
	BaseModel
	Username string `gorm:"unique;not null"`
	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"not null;default:REGISTERED_USER"`
	// 软删除走的是这个开关，不动DeletedAt
	IsActive bool `gorm:"not null;default:true"`

	FirstName      string
	LastName       string
	Phone          string
	Bio            string `gorm:"type:text"`
	ProfilePicture string
}

func (User) TableName() string {
	return "users"
}
