package dto

import (
	"time"

	"clipnest/internal/model"
	"clipnest/internal/service"
)

// CommentResponse 是评论树节点的响应结构，Replies递归嵌套
type CommentResponse struct {
	ID        uint64            `json:"id"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"created_at"`
	Pinned    bool              `json:"pinned"`
	LikeCount int64             `json:"like_count"`
	Liked     bool              `json:"liked"`
	Author    UserInfo          `json:"author"`
	Replies   []CommentResponse `json:"replies"`
}

func toCommentResponse(node *service.CommentNode) CommentResponse {
	resp := CommentResponse{
		ID:        node.Comment.ID,
		Content:   node.Comment.Content,
		CreatedAt: node.Comment.CreatedAt,
		Pinned:    node.Comment.Pinned,
		LikeCount: node.LikeCount,
		Liked:     node.Liked,
		Replies:   make([]CommentResponse, 0, len(node.Replies)),
	}
	if node.Comment.User.ID != 0 {
		resp.Author = ToUserInfo(&node.Comment.User)
	} else {
		resp.Author = UserInfo{ID: node.Comment.UserID}
	}
	for _, reply := range node.Replies {
		resp.Replies = append(resp.Replies, toCommentResponse(reply))
	}
	return resp
}

func ToCommentResponses(nodes []*service.CommentNode) []CommentResponse {
	responses := make([]CommentResponse, 0, len(nodes))
	for _, node := range nodes {
		responses = append(responses, toCommentResponse(node))
	}
	return responses
}

// FlatCommentResponse 是单条评论（不带子树）的响应，用于创建/修改的返回
type FlatCommentResponse struct {
	ID        uint64    `json:"id"`
	VideoID   uint64    `json:"video_id"`
	ParentID  *uint64   `json:"parent_id,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Author    UserInfo  `json:"author"`
}

func ToFlatCommentResponse(comment *model.Comment) *FlatCommentResponse {
	resp := &FlatCommentResponse{
		ID:        comment.ID,
		VideoID:   comment.VideoID,
		ParentID:  comment.ParentID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
	if comment.User.ID != 0 {
		resp.Author = ToUserInfo(&comment.User)
	} else {
		resp.Author = UserInfo{ID: comment.UserID}
	}
	return resp
}
