package dto

import (
	"time"

	"clipnest/internal/model"
)

// UserInfo 是嵌在其他响应里的精简用户信息
type UserInfo struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// UserResponse 是用户详情的响应结构，不含密码等敏感字段
type UserResponse struct {
	ID             uint64    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"is_active"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Phone          string    `json:"phone"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
}

func ToUserInfo(user *model.User) UserInfo {
	return UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}

// SubscriptionResponse 是订阅列表里的一项
type SubscriptionResponse struct {
	Creator      UserInfo  `json:"creator"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

func ToSubscriptionResponses(subs []model.Subscription) []SubscriptionResponse {
	responses := make([]SubscriptionResponse, 0, len(subs))
	for i := range subs {
		creator := UserInfo{ID: subs[i].CreatorID}
		if subs[i].Creator.ID != 0 {
			creator = ToUserInfo(&subs[i].Creator)
		}
		responses = append(responses, SubscriptionResponse{
			Creator:      creator,
			SubscribedAt: subs[i].CreatedAt,
		})
	}
	return responses
}

func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Role:           user.Role,
		IsActive:       user.IsActive,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Phone:          user.Phone,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
	}
}
