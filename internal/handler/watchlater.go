package handler

import (
	"net/http"

	"clipnest/internal/dto"
	"clipnest/internal/middleware"
	"clipnest/internal/service"
	"clipnest/pkg/logger"

	"github.com/gin-gonic/gin"
)

type WatchLaterHandler interface {
	Add(c *gin.Context)
	Remove(c *gin.Context)
	List(c *gin.Context)
	Clear(c *gin.Context)
}

type watchLaterHandler struct {
	WatchLaterService service.WatchLaterService
}

func NewWatchLaterHandler(watchLaterService service.WatchLaterService) WatchLaterHandler {
	return &watchLaterHandler{WatchLaterService: watchLaterService}
}

func (h *watchLaterHandler) Add(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	if err := h.WatchLaterService.Add(current.ID, videoID); err != nil {
		sendServiceError(c, logger.Log.WithField("video_id", videoID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已加入稍后再看"})
}

func (h *watchLaterHandler) Remove(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	if err := h.WatchLaterService.Remove(current.ID, videoID); err != nil {
		sendServiceError(c, logger.Log.WithField("video_id", videoID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已移出稍后再看"})
}

func (h *watchLaterHandler) List(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	entries, err := h.WatchLaterService.List(current.ID)
	if err != nil {
		sendServiceError(c, logger.Log.WithField("user_id", current.ID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToWatchLaterResponses(entries)})
}

func (h *watchLaterHandler) Clear(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	if err := h.WatchLaterService.Clear(current.ID); err != nil {
		sendServiceError(c, logger.Log.WithField("user_id", current.ID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "稍后再看已清空"})
}
