package router

import (
	"net/http"

	"clipnest/internal/handler"
	"clipnest/internal/middleware"
	"clipnest/pkg/metrics"
	"clipnest/pkg/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	User         handler.UserHandler
	Video        handler.VideoHandler
	Comment      handler.CommentHandler
	Rating       handler.RatingHandler
	Category     handler.CategoryHandler
	Playlist     handler.PlaylistHandler
	WatchLater   handler.WatchLaterHandler
	Subscription handler.SubscriptionHandler
	Report       handler.ReportHandler
	Admin        handler.AdminHandler
	Page         handler.PageHandler
}

func SetupRouter(h Handlers, sessionStore *session.Store) *gin.Engine {
	r := gin.Default()
	r.Use(metrics.Middleware())
	// 所有请求都先尝试恢复会话，没登录也放行
	r.Use(middleware.LoadSession(sessionStore))

	r.LoadHTMLGlob("web/templates/*.html")
	r.Static("/static", "./web/static")

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 页面路由
	r.GET("/", h.Page.Home)
	r.GET("/index", h.Page.Home)
	r.GET("/login", h.Page.Login)
	r.GET("/register", h.Page.Register)
	r.GET("/profile", h.Page.Profile)
	r.GET("/profile/:user_id", h.Page.Profile)
	r.GET("/video-show", h.Page.VideoShow)
	r.GET("/video-upload", h.Page.VideoUpload)
	r.GET("/playlist", h.Page.Playlist)
	r.GET("/search", h.Page.Search)
	r.GET("/trending", h.Page.Trending)
	r.GET("/report-issue", h.Page.ReportIssue)
	r.GET("/admin-dashboard", h.Page.AdminDashboard)

	// 上传文件回放，私有视频的可见性在视频详情接口把关
	r.GET("/uploads/:kind/:filename", h.Video.ServeMedia)

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		apiV1.POST("/users/register", h.User.Register)
		apiV1.POST("/users/login", h.User.Login)
		apiV1.POST("/users/logout", h.User.Logout)
		apiV1.GET("/users/:user_id", h.User.GetUser)
		apiV1.GET("/users/:user_id/videos", h.Video.ListByUser)
		apiV1.GET("/users/:user_id/playlists", h.Playlist.ListByUser)

		apiV1.GET("/videos", h.Video.ListPublic)
		apiV1.GET("/videos/latest", h.Video.ListLatest)
		apiV1.GET("/videos/top-rated", h.Video.ListTopRated)
		apiV1.GET("/videos/search", h.Video.Search)
		apiV1.GET("/videos/:video_id", h.Video.GetVideo)
		apiV1.GET("/videos/:video_id/related", h.Video.Related)
		apiV1.GET("/videos/:video_id/comments", h.Comment.ListByVideo)
		apiV1.GET("/videos/:video_id/ratings", h.Rating.State)
		apiV1.GET("/videos/:video_id/stars", h.Rating.Stars)

		apiV1.GET("/categories", h.Category.List)
		apiV1.GET("/categories/search", h.Category.Search)
		apiV1.GET("/categories/:category_id", h.Category.Get)
		apiV1.GET("/categories/:category_id/videos", h.Video.ListByCategory)

		apiV1.GET("/playlists/search", h.Playlist.SearchPublic)
		apiV1.GET("/playlists/:playlist_id", h.Playlist.Get)
		apiV1.GET("/playlists/:playlist_id/videos", h.Playlist.Entries)

		apiV1.GET("/creators/:creator_id/subscription", h.Subscription.Status)

		// 匿名也能举报
		apiV1.POST("/reports", h.Report.Create)

		// 登录后接口
		authorized := apiV1.Group("/")
		authorized.Use(middleware.RequireAuth())
		{
			authorized.GET("/me", h.User.Me)
			authorized.PUT("/me", h.User.UpdateProfile)
			authorized.POST("/me/become-creator", h.User.BecomeCreator)

			authorized.POST("/videos", h.Video.Upload)
			authorized.PUT("/videos/:video_id", h.Video.UpdateVideo)
			authorized.DELETE("/videos/:video_id", h.Video.DeleteVideo)

			authorized.POST("/videos/:video_id/comments", h.Comment.Create)
			authorized.PUT("/comments/:comment_id", h.Comment.Update)
			authorized.DELETE("/comments/:comment_id", h.Comment.Delete)
			authorized.POST("/comments/:comment_id/like", h.Comment.ToggleLike)

			authorized.POST("/videos/:video_id/ratings", h.Rating.Toggle)
			authorized.POST("/videos/:video_id/stars", h.Rating.RateStars)

			authorized.POST("/playlists", h.Playlist.Create)
			authorized.GET("/playlists", h.Playlist.ListMine)
			authorized.PUT("/playlists/:playlist_id", h.Playlist.Update)
			authorized.DELETE("/playlists/:playlist_id", h.Playlist.Delete)
			authorized.POST("/playlists/:playlist_id/videos", h.Playlist.AddVideo)
			authorized.DELETE("/playlists/:playlist_id/videos/:video_id", h.Playlist.RemoveVideo)
			authorized.PUT("/playlists/:playlist_id/order", h.Playlist.Reorder)

			authorized.GET("/watch-later", h.WatchLater.List)
			authorized.POST("/watch-later/:video_id", h.WatchLater.Add)
			authorized.DELETE("/watch-later/:video_id", h.WatchLater.Remove)
			authorized.DELETE("/watch-later", h.WatchLater.Clear)

			authorized.GET("/subscriptions", h.Subscription.List)
			authorized.POST("/creators/:creator_id/subscription", h.Subscription.Subscribe)
			authorized.DELETE("/creators/:creator_id/subscription", h.Subscription.Unsubscribe)

			authorized.GET("/reports/mine", h.Report.ListMine)
		}

		// 管理端接口
		admin := apiV1.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/dashboard", h.Admin.Dashboard)

			admin.GET("/users", h.Admin.ListUsers)
			admin.GET("/users/search", h.Admin.SearchUsers)
			admin.PUT("/users/:user_id/role", h.Admin.ChangeRole)
			admin.PUT("/users/:user_id/deactivate", h.Admin.DeactivateUser)
			admin.DELETE("/users/:user_id", h.Admin.DeleteUser)

			admin.PUT("/videos/:video_id/status", h.Admin.SetVideoStatus)

			admin.POST("/categories", h.Category.Create)
			admin.PUT("/categories/:category_id", h.Category.Update)
			admin.DELETE("/categories/:category_id", h.Category.Delete)

			admin.GET("/reports", h.Report.List)
			admin.GET("/reports/:report_id", h.Report.Get)
			admin.PUT("/reports/:report_id/status", h.Report.UpdateStatus)
			admin.DELETE("/reports/:report_id", h.Report.Delete)

			admin.PUT("/comments/:comment_id/pin", h.Comment.Pin)
			admin.PUT("/comments/:comment_id/spam", h.Comment.MarkSpam)
			admin.PUT("/comments/:comment_id/disable", h.Comment.Disable)
		}
	}

	return r
}
