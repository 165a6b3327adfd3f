package middleware

import (
	"net/http"

	"clipnest/pkg/logger"
	"clipnest/pkg/session"

	"github.com/gin-gonic/gin"
)

// context里存用户快照用的key
const ContextUserKey = "currentUser"

// LoadSession 尝试从会话Cookie恢复用户快照放入Context，恢复不了也放行。
// 流程：1、取Cookie 2、查Redis会话 3、命中则c.Set用户快照
// 后续handler通过CurrentUser(c)读取，快照是值拷贝，请求内不可变
func LoadSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}
		user, err := store.Get(c.Request.Context(), token)
		if err != nil {
			// Redis出错按未登录处理，不截断请求
			logger.Log.WithError(err).Warn("会话读取失败")
			c.Next()
			return
		}
		if user != nil {
			c.Set(ContextUserKey, *user)
		}
		c.Next()
	}
}

// RequireAuth 只允许已登录用户通过
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "请先登录"})
			return
		}
		c.Next()
	}
}

// RequireAdmin 只允许管理员通过
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "请先登录"})
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "需要管理员权限"})
			return
		}
		c.Next()
	}
}

// CurrentUser 从Context取出会话用户快照
func CurrentUser(c *gin.Context) (session.CurrentUser, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return session.CurrentUser{}, false
	}
	user, ok := value.(session.CurrentUser)
	return user, ok
}
