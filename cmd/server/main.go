package main

import (
	"log"

	"clipnest/internal/config"
	"clipnest/internal/data"
	"clipnest/internal/handler"
	"clipnest/internal/model"
	"clipnest/internal/repository"
	"clipnest/internal/router"
	"clipnest/internal/service"
	"clipnest/pkg/logger"
	"clipnest/pkg/rabbitmq"
	"clipnest/pkg/redis"
	"clipnest/pkg/session"
	"clipnest/pkg/storage"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	// 加载.env文件
	if err := config.Load(); err != nil {
		log.Fatalf(".env文件加载失败: %v", err)
	}
	// 初始化logger
	logger.InitLogger()

	// 初始化Redis
	redisClient, err := redis.InitRedis()
	if err != nil {
		logger.Log.Fatalf("无法连接到Redis: %v", err)
	}
	logger.Log.Info("Redis连接成功")

	// 初始化RabbitMQ
	rabbitMQConn, err := rabbitmq.InitRabbitMQ()
	if err != nil {
		logger.Log.Fatalf("无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close()
	logger.Log.Info("RabbitMQ连接成功")

	db, err := gorm.Open(mysql.Open(config.MySQLDSN()), &gorm.Config{})
	if err != nil {
		logger.Log.Fatalf("无法连接到数据库: %v", err)
	}
	logger.Log.Info("数据库连接成功")

	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Video{},
		&model.Comment{},
		&model.CommentLike{},
		&model.Rating{},
		&model.VideoUserRating{},
		&model.Playlist{},
		&model.PlaylistVideo{},
		&model.WatchLater{},
		&model.Subscription{},
		&model.Report{},
	); err != nil {
		logger.Log.Fatalf("数据库迁移失败: %v", err)
	}
	logger.Log.Info("数据库迁移成功")

	sessionStore := session.NewStore(redisClient, config.SessionTTL())
	fileStore := storage.NewStore(config.UploadDir())

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db, redisClient)
	commentRepo := repository.NewCommentRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	watchLaterRepo := repository.NewWatchLaterRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	reportRepo := repository.NewReportRepository(db)

	uow := data.NewUnitOfWork(db, userRepo, videoRepo, commentRepo, ratingRepo, playlistRepo, watchLaterRepo, subscriptionRepo)

	noticePublisher, err := service.NewNoticePublisher(rabbitMQConn)
	if err != nil {
		logger.Log.Fatalf("通知队列初始化失败: %v", err)
	}

	userService := service.NewUserService(userRepo, videoRepo, uow)
	videoService := service.NewVideoService(videoRepo, categoryRepo, uow, fileStore)
	ratingService := service.NewRatingService(ratingRepo, videoRepo, uow)
	commentService := service.NewCommentService(commentRepo, videoRepo, uow)
	categoryService := service.NewCategoryService(categoryRepo, videoRepo)
	playlistService := service.NewPlaylistService(playlistRepo, videoRepo, uow)
	watchLaterService := service.NewWatchLaterService(watchLaterRepo, videoRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, userRepo)
	reportService := service.NewReportService(reportRepo, videoRepo, commentRepo, userRepo, noticePublisher)

	handlers := router.Handlers{
		User:         handler.NewUserHandler(userService, sessionStore),
		Video:        handler.NewVideoHandler(videoService, fileStore),
		Comment:      handler.NewCommentHandler(commentService),
		Rating:       handler.NewRatingHandler(ratingService),
		Category:     handler.NewCategoryHandler(categoryService),
		Playlist:     handler.NewPlaylistHandler(playlistService),
		WatchLater:   handler.NewWatchLaterHandler(watchLaterService),
		Subscription: handler.NewSubscriptionHandler(subscriptionService),
		Report:       handler.NewReportHandler(reportService),
		Admin:        handler.NewAdminHandler(userService, videoService, reportService, fileStore),
		Page:         handler.NewPageHandler(),
	}

	r := router.SetupRouter(handlers, sessionStore)

	addr := config.ListenAddr()
	logger.Log.Infof("服务器将在%s启动", addr)
	if err := r.Run(addr); err != nil {
		logger.Log.Fatalf("服务器启动失败: %v", err)
	}
}
