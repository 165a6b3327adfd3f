package data

import (
	"clipnest/internal/repository"

	"gorm.io/gorm"
)

// UnitOfWork 把一个函数包在数据库事务里执行，为它提供绑定了事务的Repositories。
// 多步写操作（评分切换+计数重算、列表重排、视频级联删除）都走这里，
// 保证部分写入不可见。
type UnitOfWork interface {
	Execute(fn func(repos *TransactionalRepositories) error) error
}

// TransactionalRepositories 持有同一个事务里协作的全部Repository
type TransactionalRepositories struct {
	UserRepo         repository.UserRepository
	VideoRepo        repository.VideoRepository
	CommentRepo      repository.CommentRepository
	RatingRepo       repository.RatingRepository
	PlaylistRepo     repository.PlaylistRepository
	WatchLaterRepo   repository.WatchLaterRepository
	SubscriptionRepo repository.SubscriptionRepository
}

type gormUnitOfWork struct {
	db               *gorm.DB
	userRepo         repository.UserRepository
	videoRepo        repository.VideoRepository
	commentRepo      repository.CommentRepository
	ratingRepo       repository.RatingRepository
	playlistRepo     repository.PlaylistRepository
	watchLaterRepo   repository.WatchLaterRepository
	subscriptionRepo repository.SubscriptionRepository
}

// NewUnitOfWork 接收原始的、非事务的repositories
func NewUnitOfWork(
	db *gorm.DB,
	userRepo repository.UserRepository,
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	ratingRepo repository.RatingRepository,
	playlistRepo repository.PlaylistRepository,
	watchLaterRepo repository.WatchLaterRepository,
	subscriptionRepo repository.SubscriptionRepository,
) UnitOfWork {
	return &gormUnitOfWork{
		db:               db,
		userRepo:         userRepo,
		videoRepo:        videoRepo,
		commentRepo:      commentRepo,
		ratingRepo:       ratingRepo,
		playlistRepo:     playlistRepo,
		watchLaterRepo:   watchLaterRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

// Execute fn返回error则整个事务回滚，返回nil则提交
func (u *gormUnitOfWork) Execute(fn func(repos *TransactionalRepositories) error) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		repos := &TransactionalRepositories{
			UserRepo:         u.userRepo.WithTx(tx),
			VideoRepo:        u.videoRepo.WithTx(tx),
			CommentRepo:      u.commentRepo.WithTx(tx),
			RatingRepo:       u.ratingRepo.WithTx(tx),
			PlaylistRepo:     u.playlistRepo.WithTx(tx),
			WatchLaterRepo:   u.watchLaterRepo.WithTx(tx),
			SubscriptionRepo: u.subscriptionRepo.WithTx(tx),
		}
		return fn(repos)
	})
}
