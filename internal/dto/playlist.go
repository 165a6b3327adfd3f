package dto

import (
	"time"

	"clipnest/internal/model"
)

type PlaylistResponse struct {
	ID              uint64    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Privacy         string    `json:"privacy"`
	IsCollaborative bool      `json:"is_collaborative"`
	CreatedAt       time.Time `json:"created_at"`
	Owner           UserInfo  `json:"owner"`
}

// PlaylistEntryResponse 是播放列表里的一个条目，position从1开始连续
type PlaylistEntryResponse struct {
	Position int           `json:"position"`
	Video    VideoResponse `json:"video"`
	AddedAt  time.Time     `json:"added_at"`
}

func ToPlaylistResponse(playlist *model.Playlist) *PlaylistResponse {
	resp := &PlaylistResponse{
		ID:              playlist.ID,
		Name:            playlist.Name,
		Description:     playlist.Description,
		Privacy:         playlist.Privacy,
		IsCollaborative: playlist.IsCollaborative,
		CreatedAt:       playlist.CreatedAt,
	}
	if playlist.User.ID != 0 {
		resp.Owner = ToUserInfo(&playlist.User)
	} else {
		resp.Owner = UserInfo{ID: playlist.UserID}
	}
	return resp
}

func ToPlaylistResponses(playlists []model.Playlist) []PlaylistResponse {
	responses := make([]PlaylistResponse, 0, len(playlists))
	for i := range playlists {
		responses = append(responses, *ToPlaylistResponse(&playlists[i]))
	}
	return responses
}

func ToPlaylistEntryResponses(entries []model.PlaylistVideo) []PlaylistEntryResponse {
	responses := make([]PlaylistEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, PlaylistEntryResponse{
			Position: entries[i].Position,
			Video:    *ToVideoResponse(&entries[i].Video),
			AddedAt:  entries[i].CreatedAt,
		})
	}
	return responses
}

// WatchLaterResponse 是稍后再看条目的响应结构
type WatchLaterResponse struct {
	Video   VideoResponse `json:"video"`
	AddedAt time.Time     `json:"added_at"`
}

func ToWatchLaterResponses(entries []model.WatchLater) []WatchLaterResponse {
	responses := make([]WatchLaterResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, WatchLaterResponse{
			Video:   *ToVideoResponse(&entries[i].Video),
			AddedAt: entries[i].CreatedAt,
		})
	}
	return responses
}
