package handler

import (
	"net/http"
	"strconv"

	"clipnest/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorResponse 定义了标准的API错误响应结构
type ErrorResponse struct {
	Error string `json:"error"`
}

// sendErrorResponse 是一个辅助函数，用于发送标准格式的错误响应
func sendErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

// sendServiceError 按错误类别翻译HTTP状态码，内部错误不向外透出细节
func sendServiceError(c *gin.Context, logCtx *logrus.Entry, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		sendErrorResponse(c, http.StatusNotFound, err.Error())
	case apperr.KindUnauthorized:
		sendErrorResponse(c, http.StatusUnauthorized, err.Error())
	case apperr.KindForbidden:
		sendErrorResponse(c, http.StatusForbidden, err.Error())
	case apperr.KindValidation:
		sendErrorResponse(c, http.StatusBadRequest, err.Error())
	case apperr.KindConflict:
		sendErrorResponse(c, http.StatusConflict, err.Error())
	default:
		logCtx.WithError(err).Error("业务处理失败")
		sendErrorResponse(c, http.StatusInternalServerError, "内部错误")
	}
}

// parseIDParam 解析路径参数里的数字ID，失败时已写好错误响应
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		sendErrorResponse(c, http.StatusBadRequest, "无效的ID")
		return 0, false
	}
	return id, true
}
