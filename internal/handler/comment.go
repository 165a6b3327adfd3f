package handler

import (
	"net/http"
	"strconv"

	"clipnest/internal/dto"
	"clipnest/internal/middleware"
	"clipnest/internal/service"
	"clipnest/pkg/logger"

	"github.com/gin-gonic/gin"
)

type CommentHandler interface {
	Create(c *gin.Context)
	ListByVideo(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	ToggleLike(c *gin.Context)

	Pin(c *gin.Context)
	MarkSpam(c *gin.Context)
	Disable(c *gin.Context)
}

type commentHandler struct {
	CommentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) CommentHandler {
	return &commentHandler{CommentService: commentService}
}

type CreateCommentRequest struct {
	Content  string  `json:"content" binding:"required"`
	ParentID *uint64 `json:"parent_id"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type ModerateCommentRequest struct {
	Value bool `json:"value"`
}

// 发表评论：一级评论parent_id为空，回复要求父评论属于同一个视频
func (h *commentHandler) Create(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("评论参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithFields(map[string]interface{}{
		"video_id": videoID,
		"user_id":  current.ID,
	})
	comment, err := h.CommentService.Create(videoID, current.ID, req.Content, req.ParentID)
	if err != nil {
		sendServiceError(c, logCtx, err)
		return
	}

	logCtx.WithField("comment_id", comment.ID).Info("评论发表成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "评论发表成功",
		"data":    dto.ToFlatCommentResponse(comment),
	})
}

func (h *commentHandler) ListByVideo(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	current, _ := middleware.CurrentUser(c)

	nodes, err := h.CommentService.ListByVideo(videoID, current.ID, page, pageSize)
	if err != nil {
		sendServiceError(c, logger.Log.WithField("video_id", videoID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToCommentResponses(nodes)})
}

func (h *commentHandler) Update(c *gin.Context) {
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		return
	}
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithField("comment_id", commentID)
	comment, err := h.CommentService.Update(commentID, current.ID, req.Content)
	if err != nil {
		sendServiceError(c, logCtx, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "评论修改成功",
		"data":    dto.ToFlatCommentResponse(comment),
	})
}

func (h *commentHandler) Delete(c *gin.Context) {
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		return
	}
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	logCtx := logger.Log.WithFields(map[string]interface{}{
		"comment_id": commentID,
		"user_id":    current.ID,
	})
	if err := h.CommentService.Delete(commentID, current.ID, current.IsAdmin()); err != nil {
		sendServiceError(c, logCtx, err)
		return
	}

	logCtx.Info("评论删除成功")
	c.JSON(http.StatusOK, gin.H{"message": "评论删除成功"})
}

func (h *commentHandler) ToggleLike(c *gin.Context) {
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		return
	}
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	liked, likeCount, err := h.CommentService.ToggleLike(commentID, current.ID)
	if err != nil {
		sendServiceError(c, logger.Log.WithField("comment_id", commentID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"liked":      liked,
		"like_count": likeCount,
	}})
}

func (h *commentHandler) Pin(c *gin.Context) {
	h.moderate(c, h.CommentService.Pin, "评论置顶状态已更新")
}

func (h *commentHandler) MarkSpam(c *gin.Context) {
	h.moderate(c, h.CommentService.MarkSpam, "评论垃圾标记已更新")
}

func (h *commentHandler) Disable(c *gin.Context) {
	h.moderate(c, h.CommentService.Disable, "评论屏蔽状态已更新")
}

func (h *commentHandler) moderate(c *gin.Context, apply func(uint64, bool) error, message string) {
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		return
	}
	var req ModerateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	if err := apply(commentID, req.Value); err != nil {
		sendServiceError(c, logger.Log.WithField("comment_id", commentID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}
