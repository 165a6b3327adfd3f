package handler

import (
	"net/http"

	"clipnest/internal/dto"
	"clipnest/internal/model"
	"clipnest/internal/service"
	"clipnest/pkg/logger"
	"clipnest/pkg/storage"

	"github.com/gin-gonic/gin"
)

// AdminHandler 聚合管理端操作，路由层统一挂RequireAdmin
type AdminHandler interface {
	ListUsers(c *gin.Context)
	SearchUsers(c *gin.Context)
	ChangeRole(c *gin.Context)
	DeactivateUser(c *gin.Context)
	DeleteUser(c *gin.Context)

	SetVideoStatus(c *gin.Context)
	Dashboard(c *gin.Context)
}

type adminHandler struct {
	UserService   service.UserService
	VideoService  service.VideoService
	ReportService service.ReportService
	Store         *storage.Store
}

func NewAdminHandler(userService service.UserService, videoService service.VideoService, reportService service.ReportService, store *storage.Store) AdminHandler {
	return &adminHandler{
		UserService:   userService,
		VideoService:  videoService,
		ReportService: reportService,
		Store:         store,
	}
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type SetVideoStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *adminHandler) ListUsers(c *gin.Context) {
	var (
		users []model.User
		err   error
	)
	if c.Query("active") == "true" {
		users, err = h.UserService.ListActive()
	} else {
		users, err = h.UserService.ListAll()
	}
	if err != nil {
		sendServiceError(c, logger.Log.WithField("op", "list_users"), err)
		return
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.ToUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": responses})
}

func (h *adminHandler) SearchUsers(c *gin.Context) {
	users, err := h.UserService.Search(c.Query("q"))
	if err != nil {
		sendServiceError(c, logger.Log.WithField("op", "search_users"), err)
		return
	}
	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.ToUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": responses})
}

func (h *adminHandler) ChangeRole(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithFields(map[string]interface{}{
		"user_id": userID,
		"role":    req.Role,
	})
	user, err := h.UserService.ChangeRole(userID, req.Role)
	if err != nil {
		sendServiceError(c, logCtx, err)
		return
	}

	logCtx.Info("用户角色已变更")
	c.JSON(http.StatusOK, gin.H{
		"message": "用户角色已变更",
		"data":    dto.ToUserResponse(user),
	})
}

// DeactivateUser 停用账号（软删除），用户数据保留
func (h *adminHandler) DeactivateUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	logCtx := logger.Log.WithField("user_id", userID)
	if err := h.UserService.Deactivate(userID); err != nil {
		sendServiceError(c, logCtx, err)
		return
	}

	logCtx.Info("用户已停用")
	c.JSON(http.StatusOK, gin.H{"message": "用户已停用"})
}

// DeleteUser 物理删除用户并级联清理其视频及全部关联数据
func (h *adminHandler) DeleteUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	logCtx := logger.Log.WithField("user_id", userID)
	files, err := h.UserService.HardDelete(userID)
	if err != nil {
		sendServiceError(c, logCtx, err)
		return
	}
	// 事务提交后再清文件，失败只记日志
	for _, path := range files {
		if path == "" {
			continue
		}
		if removeErr := h.Store.Remove(path); removeErr != nil {
			logCtx.WithError(removeErr).WithField("path", path).Warn("删除上传文件失败")
		}
	}

	logCtx.Info("用户已删除")
	c.JSON(http.StatusOK, gin.H{"message": "用户已删除"})
}

func (h *adminHandler) SetVideoStatus(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	var req SetVideoStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithFields(map[string]interface{}{
		"video_id": videoID,
		"status":   req.Status,
	})
	video, err := h.VideoService.SetStatus(videoID, req.Status)
	if err != nil {
		sendServiceError(c, logCtx, err)
		return
	}

	logCtx.Info("视频状态已变更")
	c.JSON(http.StatusOK, gin.H{
		"message": "视频状态已变更",
		"data":    dto.ToVideoResponse(video),
	})
}

// Dashboard 汇总管理面板用的各项计数
func (h *adminHandler) Dashboard(c *gin.Context) {
	logCtx := logger.Log.WithField("op", "dashboard")

	stats := gin.H{}
	for role, key := range map[string]string{
		model.RoleAdmin:          "admin_count",
		model.RoleContentCreator: "creator_count",
		model.RoleRegisteredUser: "registered_count",
	} {
		count, err := h.UserService.CountByRole(role)
		if err != nil {
			sendServiceError(c, logCtx, err)
			return
		}
		stats[key] = count
	}
	for status, key := range map[string]string{
		model.StatusPublished:  "published_videos",
		model.StatusProcessing: "processing_videos",
		model.StatusDisabled:   "disabled_videos",
	} {
		count, err := h.VideoService.CountByStatus(status)
		if err != nil {
			sendServiceError(c, logCtx, err)
			return
		}
		stats[key] = count
	}
	for status, key := range map[string]string{
		model.ReportPending: "pending_reports",
		model.ReportDeleted: "deleted_reports",
		"":                  "total_reports",
	} {
		count, err := h.ReportService.CountByStatus(status)
		if err != nil {
			sendServiceError(c, logCtx, err)
			return
		}
		stats[key] = count
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
