package handler

import (
	"net/http"

	"clipnest/internal/middleware"
	"clipnest/internal/service"
	"clipnest/pkg/logger"

	"github.com/gin-gonic/gin"
)

type RatingHandler interface {
	Toggle(c *gin.Context)
	State(c *gin.Context)
	RateStars(c *gin.Context)
	Stars(c *gin.Context)
}

type ratingHandler struct {
	RatingService service.RatingService
}

func NewRatingHandler(ratingService service.RatingService) RatingHandler {
	return &ratingHandler{RatingService: ratingService}
}

type ToggleRatingRequest struct {
	// LIKE 或 DISLIKE
	Type string `json:"type" binding:"required"`
}

type RateStarsRequest struct {
	Score uint8 `json:"score" binding:"required"`
}

func (h *ratingHandler) Toggle(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var req ToggleRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithFields(map[string]interface{}{
		"video_id": videoID,
		"user_id":  current.ID,
	})
	state, err := h.RatingService.Toggle(videoID, current.ID, req.Type)
	if err != nil {
		sendServiceError(c, logCtx, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": state})
}

func (h *ratingHandler) State(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	current, _ := middleware.CurrentUser(c)

	state, err := h.RatingService.State(videoID, current.ID)
	if err != nil {
		sendServiceError(c, logger.Log.WithField("video_id", videoID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": state})
}

func (h *ratingHandler) RateStars(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var req RateStarsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	summary, err := h.RatingService.RateStars(videoID, current.ID, req.Score)
	if err != nil {
		sendServiceError(c, logger.Log.WithField("video_id", videoID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func (h *ratingHandler) Stars(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	current, _ := middleware.CurrentUser(c)

	summary, err := h.RatingService.Stars(videoID, current.ID)
	if err != nil {
		sendServiceError(c, logger.Log.WithField("video_id", videoID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}
