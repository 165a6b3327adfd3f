package handler

import (
	"net/http"
	"strconv"
	"strings"

	"clipnest/internal/dto"
	"clipnest/internal/middleware"
	"clipnest/internal/service"
	"clipnest/pkg/logger"
	"clipnest/pkg/storage"

	"github.com/gin-gonic/gin"
)

type VideoHandler interface {
	Upload(c *gin.Context)
	GetVideo(c *gin.Context)
	UpdateVideo(c *gin.Context)
	DeleteVideo(c *gin.Context)

	ListPublic(c *gin.Context)
	ListLatest(c *gin.Context)
	ListTopRated(c *gin.Context)
	ListByCategory(c *gin.Context)
	ListByUser(c *gin.Context)
	Search(c *gin.Context)
	Related(c *gin.Context)

	ServeMedia(c *gin.Context)
}

type videoHandler struct {
	VideoService service.VideoService
	Store        *storage.Store
}

func NewVideoHandler(videoService service.VideoService, store *storage.Store) VideoHandler {
	return &videoHandler{VideoService: videoService, Store: store}
}

type UpdateVideoRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	Privacy     *string  `json:"privacy"`
	CategoryID  *uint64  `json:"category_id"`
}

// 上传：multipart表单，video文件必填，thumbnail可选，其余是普通表单字段
func (h *videoHandler) Upload(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	videoFile, err := c.FormFile("video")
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "缺少视频文件")
		return
	}
	thumbnailFile, _ := c.FormFile("thumbnail")

	var categoryID *uint64
	if raw := c.PostForm("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			sendErrorResponse(c, http.StatusBadRequest, "无效的分类ID")
			return
		}
		categoryID = &id
	}
	duration, _ := strconv.ParseUint(c.PostForm("duration"), 10, 32)

	var tags []string
	if raw := c.PostForm("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	logCtx := logger.Log.WithField("uploader_id", current.ID)
	logCtx.Info("开始处理视频上传请求")

	video, err := h.VideoService.Upload(current.ID, service.UploadVideoInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Tags:        tags,
		Privacy:     c.PostForm("privacy"),
		CategoryID:  categoryID,
		Duration:    uint(duration),
	}, videoFile, thumbnailFile)
	if err != nil {
		sendServiceError(c, logCtx, err)
		return
	}

	logCtx.WithField("video_id", video.ID).Info("视频上传成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "视频上传成功",
		"data":    dto.ToVideoResponse(video),
	})
}

func (h *videoHandler) GetVideo(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	current, _ := middleware.CurrentUser(c)

	video, err := h.VideoService.Get(videoID, current.ID, current.IsAdmin())
	if err != nil {
		sendServiceError(c, logger.Log.WithField("video_id", videoID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToVideoResponse(video)})
}

func (h *videoHandler) UpdateVideo(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var req UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("视频更新参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithField("video_id", videoID)
	video, err := h.VideoService.Update(videoID, current.ID, current.IsAdmin(), service.UpdateVideoInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Privacy:     req.Privacy,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		sendServiceError(c, logCtx, err)
		return
	}

	logCtx.Info("视频更新成功")
	c.JSON(http.StatusOK, gin.H{
		"message": "视频更新成功",
		"data":    dto.ToVideoResponse(video),
	})
}

func (h *videoHandler) DeleteVideo(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	logCtx := logger.Log.WithFields(map[string]interface{}{
		"video_id": videoID,
		"user_id":  current.ID,
	})
	if err := h.VideoService.Delete(videoID, current.ID, current.IsAdmin()); err != nil {
		sendServiceError(c, logCtx, err)
		return
	}

	logCtx.Info("视频删除成功")
	c.JSON(http.StatusOK, gin.H{"message": "视频删除成功"})
}

func (h *videoHandler) ListPublic(c *gin.Context) {
	videos, err := h.VideoService.ListPublic()
	if err != nil {
		sendServiceError(c, logger.Log.WithField("op", "list_public"), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToVideoResponses(videos)})
}

func (h *videoHandler) ListLatest(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	videos, err := h.VideoService.ListLatest(limit)
	if err != nil {
		sendServiceError(c, logger.Log.WithField("op", "list_latest"), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToVideoResponses(videos)})
}

func (h *videoHandler) ListTopRated(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	videos, err := h.VideoService.ListTopRated(limit)
	if err != nil {
		sendServiceError(c, logger.Log.WithField("op", "list_top_rated"), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToVideoResponses(videos)})
}

func (h *videoHandler) ListByCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "category_id")
	if !ok {
		return
	}
	videos, err := h.VideoService.ListByCategory(categoryID)
	if err != nil {
		sendServiceError(c, logger.Log.WithField("category_id", categoryID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToVideoResponses(videos)})
}

func (h *videoHandler) ListByUser(c *gin.Context) {
	uploaderID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	current, _ := middleware.CurrentUser(c)

	videos, err := h.VideoService.ListByUploader(uploaderID, current.ID, current.IsAdmin())
	if err != nil {
		sendServiceError(c, logger.Log.WithField("uploader_id", uploaderID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToVideoResponses(videos)})
}

func (h *videoHandler) Search(c *gin.Context) {
	keyword := c.Query("q")
	var categoryID uint64
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			sendErrorResponse(c, http.StatusBadRequest, "无效的分类ID")
			return
		}
		categoryID = id
	}

	videos, err := h.VideoService.Search(keyword, categoryID)
	if err != nil {
		sendServiceError(c, logger.Log.WithField("keyword", keyword), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToVideoResponses(videos)})
}

func (h *videoHandler) Related(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	videos, err := h.VideoService.Related(videoID, limit)
	if err != nil {
		sendServiceError(c, logger.Log.WithField("video_id", videoID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToVideoResponses(videos)})
}

// ServeMedia 按公开路径回放上传的文件，路径穿越由storage.Resolve把关。
// 缩略图公开，视频文件要求已登录
func (h *videoHandler) ServeMedia(c *gin.Context) {
	kind := c.Param("kind")
	if kind == "videos" {
		if _, ok := middleware.CurrentUser(c); !ok {
			sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
			return
		}
	}
	publicPath := "/uploads/" + kind + "/" + c.Param("filename")
	diskPath := h.Store.Resolve(publicPath)
	if diskPath == "" {
		sendErrorResponse(c, http.StatusNotFound, "文件不存在")
		return
	}
	c.File(diskPath)
}
