package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"clipnest/internal/model"
	"clipnest/pkg/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func guardedRouter(user *session.CurrentUser, guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(ContextUserKey, *user)
		}
		c.Next()
	})
	r.GET("/protected", guard, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return r
}

func get(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	return w
}

func TestRequireAuth(t *testing.T) {
	t.Run("匿名被挡", func(t *testing.T) {
		w := get(guardedRouter(nil, RequireAuth()))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("已登录放行", func(t *testing.T) {
		user := session.CurrentUser{ID: 1, Username: "alice", Role: model.RoleRegisteredUser}
		w := get(guardedRouter(&user, RequireAuth()))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("匿名返回401", func(t *testing.T) {
		w := get(guardedRouter(nil, RequireAdmin()))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("普通用户返回403", func(t *testing.T) {
		user := session.CurrentUser{ID: 1, Username: "alice", Role: model.RoleContentCreator}
		w := get(guardedRouter(&user, RequireAdmin()))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("管理员放行", func(t *testing.T) {
		admin := session.CurrentUser{ID: 2, Username: "root", Role: model.RoleAdmin}
		w := get(guardedRouter(&admin, RequireAdmin()))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCurrentUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := CurrentUser(c)
	assert.False(t, ok)

	c.Set(ContextUserKey, session.CurrentUser{ID: 5, Username: "bob", Role: model.RoleRegisteredUser})
	user, ok := CurrentUser(c)
	assert.True(t, ok)
	assert.Equal(t, uint64(5), user.ID)
}
