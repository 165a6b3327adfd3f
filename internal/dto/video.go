package dto

import (
	"time"

	"clipnest/internal/model"
)

// VideoResponse 是视频详情/列表的响应结构
type VideoResponse struct {
	ID            uint64    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	FilePath      string    `json:"file_path"`
	ThumbnailPath string    `json:"thumbnail_path"`
	Duration      uint      `json:"duration"`
	FileSize      uint64    `json:"file_size"`
	Privacy       string    `json:"privacy"`
	Status        string    `json:"status"`
	ViewCount     uint64    `json:"view_count"`
	LikeCount     uint64    `json:"like_count"`
	DislikeCount  uint64    `json:"dislike_count"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"created_at"`

	Uploader UserInfo  `json:"uploader"`
	Category *Category `json:"category,omitempty"`
}

type Category struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func ToVideoResponse(video *model.Video) *VideoResponse {
	resp := &VideoResponse{
		ID:            video.ID,
		Title:         video.Title,
		Description:   video.Description,
		FilePath:      video.FilePath,
		ThumbnailPath: video.ThumbnailPath,
		Duration:      video.Duration,
		FileSize:      video.FileSize,
		Privacy:       video.Privacy,
		Status:        video.Status,
		ViewCount:     video.ViewCount,
		LikeCount:     video.LikeCount,
		DislikeCount:  video.DislikeCount,
		Tags:          video.TagList(),
		CreatedAt:     video.CreatedAt,
	}
	if video.Uploader.ID != 0 {
		resp.Uploader = ToUserInfo(&video.Uploader)
	} else {
		resp.Uploader = UserInfo{ID: video.UploaderID}
	}
	if video.Category != nil && video.Category.ID != 0 {
		resp.Category = &Category{ID: video.Category.ID, Name: video.Category.Name}
	}
	return resp
}

func ToVideoResponses(videos []model.Video) []VideoResponse {
	responses := make([]VideoResponse, 0, len(videos))
	for i := range videos {
		responses = append(responses, *ToVideoResponse(&videos[i]))
	}
	return responses
}
