package handler

import (
	"net/http"

	"clipnest/internal/middleware"

	"github.com/gin-gonic/gin"
)

// PageHandler 渲染各页面骨架，数据由页面内脚本走API拉取
type PageHandler interface {
	Home(c *gin.Context)
	Login(c *gin.Context)
	Register(c *gin.Context)
	Profile(c *gin.Context)
	VideoShow(c *gin.Context)
	VideoUpload(c *gin.Context)
	Playlist(c *gin.Context)
	Search(c *gin.Context)
	Trending(c *gin.Context)
	ReportIssue(c *gin.Context)
	AdminDashboard(c *gin.Context)
}

type pageHandler struct{}

func NewPageHandler() PageHandler {
	return &pageHandler{}
}

func (h *pageHandler) render(c *gin.Context, template, title string) {
	user, loggedIn := middleware.CurrentUser(c)
	c.HTML(http.StatusOK, template, gin.H{
		"Title":    title,
		"LoggedIn": loggedIn,
		"User":     user,
	})
}

func (h *pageHandler) Home(c *gin.Context)        { h.render(c, "index.html", "首页") }
func (h *pageHandler) Login(c *gin.Context)       { h.render(c, "login.html", "登录") }
func (h *pageHandler) Register(c *gin.Context)    { h.render(c, "register.html", "注册") }
func (h *pageHandler) Profile(c *gin.Context)     { h.render(c, "profile.html", "个人中心") }
func (h *pageHandler) VideoShow(c *gin.Context)   { h.render(c, "video_show.html", "视频播放") }
func (h *pageHandler) VideoUpload(c *gin.Context) { h.render(c, "video_upload.html", "上传视频") }
func (h *pageHandler) Playlist(c *gin.Context)    { h.render(c, "playlist.html", "播放列表") }
func (h *pageHandler) Search(c *gin.Context)      { h.render(c, "search.html", "搜索") }
func (h *pageHandler) Trending(c *gin.Context)    { h.render(c, "trending.html", "热门") }
func (h *pageHandler) ReportIssue(c *gin.Context) { h.render(c, "report_issue.html", "举报") }

func (h *pageHandler) AdminDashboard(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok || !user.IsAdmin() {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	h.render(c, "admin_dashboard.html", "管理面板")
}
