package handler

import (
	"net/http"

	"clipnest/internal/dto"
	"clipnest/internal/middleware"
	"clipnest/internal/service"
	"clipnest/pkg/logger"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler interface {
	Subscribe(c *gin.Context)
	Unsubscribe(c *gin.Context)
	Status(c *gin.Context)
	List(c *gin.Context)
}

type subscriptionHandler struct {
	SubscriptionService service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService service.SubscriptionService) SubscriptionHandler {
	return &subscriptionHandler{SubscriptionService: subscriptionService}
}

func (h *subscriptionHandler) Subscribe(c *gin.Context) {
	creatorID, ok := parseIDParam(c, "creator_id")
	if !ok {
		return
	}
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	logCtx := logger.Log.WithFields(map[string]interface{}{
		"subscriber_id": current.ID,
		"creator_id":    creatorID,
	})
	if err := h.SubscriptionService.Subscribe(current.ID, creatorID); err != nil {
		sendServiceError(c, logCtx, err)
		return
	}

	logCtx.Info("订阅成功")
	c.JSON(http.StatusOK, gin.H{"message": "订阅成功"})
}

func (h *subscriptionHandler) Unsubscribe(c *gin.Context) {
	creatorID, ok := parseIDParam(c, "creator_id")
	if !ok {
		return
	}
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	if err := h.SubscriptionService.Unsubscribe(current.ID, creatorID); err != nil {
		sendServiceError(c, logger.Log.WithField("creator_id", creatorID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已取消订阅"})
}

// Status 返回订阅人数和当前用户是否已订阅
func (h *subscriptionHandler) Status(c *gin.Context) {
	creatorID, ok := parseIDParam(c, "creator_id")
	if !ok {
		return
	}
	current, _ := middleware.CurrentUser(c)

	count, err := h.SubscriptionService.SubscriberCount(creatorID)
	if err != nil {
		sendServiceError(c, logger.Log.WithField("creator_id", creatorID), err)
		return
	}
	subscribed := false
	if current.ID != 0 {
		subscribed, err = h.SubscriptionService.IsSubscribed(current.ID, creatorID)
		if err != nil {
			sendServiceError(c, logger.Log.WithField("creator_id", creatorID), err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"subscriber_count": count,
		"subscribed":       subscribed,
	}})
}

func (h *subscriptionHandler) List(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	subs, err := h.SubscriptionService.ListSubscriptions(current.ID)
	if err != nil {
		sendServiceError(c, logger.Log.WithField("user_id", current.ID), err)
		return
	}
	total, err := h.SubscriptionService.SubscriptionCount(current.ID)
	if err != nil {
		sendServiceError(c, logger.Log.WithField("user_id", current.ID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"total":         total,
		"subscriptions": dto.ToSubscriptionResponses(subs),
	}})
}
