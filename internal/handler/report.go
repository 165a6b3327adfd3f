package handler

import (
	"net/http"

	"clipnest/internal/dto"
	"clipnest/internal/middleware"
	"clipnest/internal/service"
	"clipnest/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ReportHandler interface {
	Create(c *gin.Context)
	ListMine(c *gin.Context)

	// 管理端
	List(c *gin.Context)
	Get(c *gin.Context)
	UpdateStatus(c *gin.Context)
	Delete(c *gin.Context)
}

type reportHandler struct {
	ReportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) ReportHandler {
	return &reportHandler{ReportService: reportService}
}

type CreateReportRequest struct {
	VideoID     *uint64 `json:"video_id"`
	CommentID   *uint64 `json:"comment_id"`
	ReportType  string  `json:"report_type" binding:"required"`
	Description string  `json:"description"`
	// 未登录举报时必填
	Email string `json:"email"`
}

type UpdateReportStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	AdminNotes string `json:"admin_notes"`
}

type DeleteReportRequest struct {
	DeletionReason string `json:"deletion_reason" binding:"required"`
}

// 举报：登录用户带身份，匿名用户必须留邮箱
func (h *reportHandler) Create(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("举报参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	in := service.CreateReportInput{
		VideoID:       req.VideoID,
		CommentID:     req.CommentID,
		ReportType:    req.ReportType,
		Description:   req.Description,
		ReporterEmail: req.Email,
	}
	if current, ok := middleware.CurrentUser(c); ok {
		userID := current.ID
		in.ReportedByID = &userID
	}

	logCtx := logger.Log.WithField("report_type", req.ReportType)
	report, err := h.ReportService.Create(in)
	if err != nil {
		sendServiceError(c, logCtx, err)
		return
	}

	logCtx.WithField("report_id", report.ID).Info("举报提交成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "举报提交成功",
		"data":    dto.ToReportResponse(report),
	})
}

func (h *reportHandler) ListMine(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	reports, err := h.ReportService.ListByReporter(current.ID)
	if err != nil {
		sendServiceError(c, logger.Log.WithField("user_id", current.ID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToReportResponses(reports)})
}

func (h *reportHandler) List(c *gin.Context) {
	reports, err := h.ReportService.List(c.Query("status"), c.Query("type"))
	if err != nil {
		sendServiceError(c, logger.Log.WithField("op", "list_reports"), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToReportResponses(reports)})
}

func (h *reportHandler) Get(c *gin.Context) {
	reportID, ok := parseIDParam(c, "report_id")
	if !ok {
		return
	}
	report, err := h.ReportService.Get(reportID)
	if err != nil {
		sendServiceError(c, logger.Log.WithField("report_id", reportID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToReportResponse(report)})
}

func (h *reportHandler) UpdateStatus(c *gin.Context) {
	reportID, ok := parseIDParam(c, "report_id")
	if !ok {
		return
	}
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var req UpdateReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithFields(map[string]interface{}{
		"report_id": reportID,
		"status":    req.Status,
	})
	report, err := h.ReportService.UpdateStatus(reportID, current.ID, req.Status, req.AdminNotes)
	if err != nil {
		sendServiceError(c, logCtx, err)
		return
	}

	logCtx.Info("举报状态已更新")
	c.JSON(http.StatusOK, gin.H{
		"message": "举报状态已更新",
		"data":    dto.ToReportResponse(report),
	})
}

// Delete 是被举报内容的软删除，举报行保留并转DELETED
func (h *reportHandler) Delete(c *gin.Context) {
	reportID, ok := parseIDParam(c, "report_id")
	if !ok {
		return
	}
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var req DeleteReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithField("report_id", reportID)
	report, err := h.ReportService.Delete(reportID, current.ID, req.DeletionReason)
	if err != nil {
		sendServiceError(c, logCtx, err)
		return
	}

	logCtx.Info("举报内容已删除")
	c.JSON(http.StatusOK, gin.H{
		"message": "举报内容已删除",
		"data":    dto.ToReportResponse(report),
	})
}
