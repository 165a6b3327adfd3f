package handler

import (
	"net/http"

	"clipnest/internal/dto"
	"clipnest/internal/middleware"
	"clipnest/internal/service"
	"clipnest/pkg/logger"
	"clipnest/pkg/session"

	"github.com/gin-gonic/gin"
)

type UserHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
	GetUser(c *gin.Context)
	UpdateProfile(c *gin.Context)
	BecomeCreator(c *gin.Context)
}

type userHandler struct {
	UserService  service.UserService
	SessionStore *session.Store
}

func NewUserHandler(userService service.UserService, sessionStore *session.Store) UserHandler {
	return &userHandler{UserService: userService, SessionStore: sessionStore}
}

type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Bio       string `json:"bio"`
}

type LoginRequest struct {
	// 用户名或邮箱
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profile_picture"`
}

// 注册：1、解析注册请求 2、service层创建用户 3、返回用户信息（不自动登录）
func (h *userHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("注册请求参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithField("username", req.Username)
	logCtx.Info("开始处理用户注册请求")

	user, err := h.UserService.Register(service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Bio:       req.Bio,
	})
	if err != nil {
		sendServiceError(c, logCtx, err)
		return
	}

	logCtx.WithField("user_id", user.ID).Info("用户注册成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "注册成功",
		"data":    dto.ToUserResponse(user),
	})
}

// 登录：1、用户名或邮箱+密码校验 2、创建Redis会话 3、会话token写入Cookie
func (h *userHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("登录请求参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithField("login", req.Login)
	logCtx.Info("开始处理用户登录请求")

	user, err := h.UserService.Login(req.Login, req.Password)
	if err != nil {
		sendServiceError(c, logCtx, err)
		return
	}

	token, err := h.SessionStore.Create(c.Request.Context(), session.CurrentUser{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		logCtx.WithError(err).Error("会话创建失败")
		sendErrorResponse(c, http.StatusInternalServerError, "内部错误")
		return
	}

	// HttpOnly，前端脚本拿不到token
	c.SetCookie(session.CookieName, token, 0, "/", "", false, true)

	logCtx.WithField("user_id", user.ID).Info("用户登录成功")
	c.JSON(http.StatusOK, gin.H{
		"message": "登录成功",
		"data":    dto.ToUserResponse(user),
	})
}

// 登出：删除Redis会话并清空Cookie，未登录时也返回成功
func (h *userHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(session.CookieName)
	if err == nil && token != "" {
		if err := h.SessionStore.Delete(c.Request.Context(), token); err != nil {
			logger.Log.WithError(err).Warn("会话删除失败")
		}
	}
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "已登出"})
}

func (h *userHandler) Me(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}
	user, err := h.UserService.GetByID(current.ID)
	if err != nil {
		sendServiceError(c, logger.Log.WithField("user_id", current.ID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToUserResponse(user)})
}

func (h *userHandler) GetUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	user, err := h.UserService.GetByID(userID)
	if err != nil {
		sendServiceError(c, logger.Log.WithField("user_id", userID), err)
		return
	}
	// 他人主页只暴露公开信息
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"id":              user.ID,
		"username":        user.Username,
		"role":            user.Role,
		"bio":             user.Bio,
		"profile_picture": user.ProfilePicture,
	}})
}

func (h *userHandler) UpdateProfile(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("资料更新参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithField("user_id", current.ID)
	user, err := h.UserService.Update(current.ID, service.UpdateUserInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		sendServiceError(c, logCtx, err)
		return
	}

	logCtx.Info("用户资料更新成功")
	c.JSON(http.StatusOK, gin.H{
		"message": "资料更新成功",
		"data":    dto.ToUserResponse(user),
	})
}

// 成为创作者：已是创作者或管理员时幂等返回
func (h *userHandler) BecomeCreator(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "请先登录")
		return
	}

	logCtx := logger.Log.WithField("user_id", current.ID)
	user, err := h.UserService.BecomeCreator(current.ID)
	if err != nil {
		sendServiceError(c, logCtx, err)
		return
	}

	// 角色变了，刷新会话里的快照
	if user.Role != current.Role {
		if token, cookieErr := c.Cookie(session.CookieName); cookieErr == nil && token != "" {
			_ = h.SessionStore.Delete(c.Request.Context(), token)
			newToken, sessErr := h.SessionStore.Create(c.Request.Context(), session.CurrentUser{
				ID:       user.ID,
				Username: user.Username,
				Role:     user.Role,
			})
			if sessErr == nil {
				c.SetCookie(session.CookieName, newToken, 0, "/", "", false, true)
			}
		}
	}

	logCtx.WithField("role", user.Role).Info("用户升级为创作者")
	c.JSON(http.StatusOK, gin.H{
		"message": "已成为创作者",
		"data":    dto.ToUserResponse(user),
	})
}
