package handler

import (
	"net/http"

	"clipnest/internal/dto"
	"clipnest/internal/middleware"
	"clipnest/internal/service"
	"clipnest/pkg/logger"

	"github.com/gin-gonic/gin"
)

type PlaylistHandler interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	ListMine(c *gin.Context)
	ListByUser(c *gin.Context)
	SearchPublic(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)

	AddVideo(c *gin.Context)
	RemoveVideo(c *gin.Context)
	Entries(c *gin.Context)
	Reorder(c *gin.Context)
}

type playlistHandler struct {
	PlaylistService service.PlaylistService
}

func NewPlaylistHandler(playlistService service.PlaylistService) PlaylistHandler {
	return &playlistHandler{PlaylistService: playlistService}
}

type PlaylistRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	Privacy         string `json:"privacy"`
	IsCollaborative bool   `json:"is_collaborative"`
}

type AddPlaylistVideoRequest struct {
	VideoID uint64 `json:"video_id" binding:"required"`
}

type ReorderRequest struct {
	VideoIDs []uint64 `json:"video_ids" binding:"required"`
}

func (h *playlistHandler) Create(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var req PlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithField("user_id", current.ID)
	playlist, err := h.PlaylistService.Create(current.ID, service.PlaylistInput{
		Name:            req.Name,
		Description:     req.Description,
		Privacy:         req.Privacy,
		IsCollaborative: req.IsCollaborative,
	})
	if err != nil {
		sendServiceError(c, logCtx, err)
		return
	}

	logCtx.WithField("playlist_id", playlist.ID).Info("播放列表创建成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "播放列表创建成功",
		"data":    dto.ToPlaylistResponse(playlist),
	})
}

func (h *playlistHandler) Get(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "playlist_id")
	if !ok {
		return
	}
	current, _ := middleware.CurrentUser(c)

	playlist, err := h.PlaylistService.Get(playlistID, current.ID, current.IsAdmin())
	if err != nil {
		sendServiceError(c, logger.Log.WithField("playlist_id", playlistID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToPlaylistResponse(playlist)})
}

func (h *playlistHandler) ListMine(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}
	playlists, err := h.PlaylistService.ListByUser(current.ID, current.ID, current.IsAdmin())
	if err != nil {
		sendServiceError(c, logger.Log.WithField("user_id", current.ID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToPlaylistResponses(playlists)})
}

func (h *playlistHandler) ListByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	current, _ := middleware.CurrentUser(c)

	playlists, err := h.PlaylistService.ListByUser(userID, current.ID, current.IsAdmin())
	if err != nil {
		sendServiceError(c, logger.Log.WithField("user_id", userID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToPlaylistResponses(playlists)})
}

func (h *playlistHandler) SearchPublic(c *gin.Context) {
	playlists, err := h.PlaylistService.SearchPublic(c.Query("q"))
	if err != nil {
		sendServiceError(c, logger.Log.WithField("op", "search_playlists"), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToPlaylistResponses(playlists)})
}

func (h *playlistHandler) Update(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "playlist_id")
	if !ok {
		return
	}
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var req PlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	playlist, err := h.PlaylistService.Update(playlistID, current.ID, current.IsAdmin(), service.PlaylistInput{
		Name:            req.Name,
		Description:     req.Description,
		Privacy:         req.Privacy,
		IsCollaborative: req.IsCollaborative,
	})
	if err != nil {
		sendServiceError(c, logger.Log.WithField("playlist_id", playlistID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "播放列表更新成功",
		"data":    dto.ToPlaylistResponse(playlist),
	})
}

func (h *playlistHandler) Delete(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "playlist_id")
	if !ok {
		return
	}
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	if err := h.PlaylistService.Delete(playlistID, current.ID, current.IsAdmin()); err != nil {
		sendServiceError(c, logger.Log.WithField("playlist_id", playlistID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "播放列表删除成功"})
}

func (h *playlistHandler) AddVideo(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "playlist_id")
	if !ok {
		return
	}
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var req AddPlaylistVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithFields(map[string]interface{}{
		"playlist_id": playlistID,
		"video_id":    req.VideoID,
	})
	if err := h.PlaylistService.AddVideo(playlistID, req.VideoID, current.ID, current.IsAdmin()); err != nil {
		sendServiceError(c, logCtx, err)
		return
	}

	logCtx.Info("视频加入播放列表")
	c.JSON(http.StatusOK, gin.H{"message": "已加入播放列表"})
}

func (h *playlistHandler) RemoveVideo(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "playlist_id")
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	if err := h.PlaylistService.RemoveVideo(playlistID, videoID, current.ID, current.IsAdmin()); err != nil {
		sendServiceError(c, logger.Log.WithField("playlist_id", playlistID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已从播放列表移除"})
}

func (h *playlistHandler) Entries(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "playlist_id")
	if !ok {
		return
	}
	current, _ := middleware.CurrentUser(c)

	entries, err := h.PlaylistService.Entries(playlistID, current.ID, current.IsAdmin())
	if err != nil {
		sendServiceError(c, logger.Log.WithField("playlist_id", playlistID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToPlaylistEntryResponses(entries)})
}

func (h *playlistHandler) Reorder(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "playlist_id")
	if !ok {
		return
	}
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	if err := h.PlaylistService.Reorder(playlistID, current.ID, current.IsAdmin(), req.VideoIDs); err != nil {
		sendServiceError(c, logger.Log.WithField("playlist_id", playlistID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "播放列表顺序已更新"})
}
