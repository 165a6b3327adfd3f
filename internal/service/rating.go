package service

import (
	"clipnest/internal/apperr"
	"clipnest/internal/data"
	"clipnest/internal/model"
	"clipnest/internal/repository"
)

// RatingState 用户在一个视频上的评分现状
type RatingState struct {
	LikeCount    uint64 `json:"like_count"`
	DislikeCount uint64 `json:"dislike_count"`
	// 当前用户的二值评分，没有则为空串
	UserRating string `json:"user_rating"`
}

type StarSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
	// 当前用户打的星数，0表示没打过
	UserScore uint8 `json:"user_score"`
}

type RatingService interface {
	// Toggle 三态切换：无→有，同类→取消，异类→改写。返回切换后的状态
	Toggle(videoID, userID uint64, ratingType string) (*RatingState, error)
	State(videoID, userID uint64) (*RatingState, error)

	RateStars(videoID, userID uint64, score uint8) (*StarSummary, error)
	Stars(videoID, userID uint64) (*StarSummary, error)
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	videoRepo  repository.VideoRepository
	uow        data.UnitOfWork
}

func NewRatingService(ratingRepo repository.RatingRepository, videoRepo repository.VideoRepository, uow data.UnitOfWork) RatingService {
	return &ratingService{ratingRepo: ratingRepo, videoRepo: videoRepo, uow: uow}
}

// 切换逻辑和计数更新放在同一个事务里，视频表上的冗余计数每次都全量重算，
// 避免增量加减在并发下漂移
func (s *ratingService) Toggle(videoID, userID uint64, ratingType string) (*RatingState, error) {
	if !model.ValidRatingType(ratingType) {
		return nil, apperr.Validation("无效的评分类型")
	}
	if _, err := s.videoRepo.FindByID(videoID); err != nil {
		return nil, apperr.Wrap(err, "视频不存在", "")
	}

	var state RatingState
	err := s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		existing, err := repos.RatingRepo.FindByVideoAndUser(videoID, userID)
		if err != nil {
			return err
		}
		switch {
		case existing == nil:
			rating := &model.Rating{VideoID: videoID, UserID: userID, Type: ratingType}
			if err := repos.RatingRepo.Create(rating); err != nil {
				return err
			}
			state.UserRating = ratingType
		case existing.Type == ratingType:
			if err := repos.RatingRepo.Delete(existing.ID); err != nil {
				return err
			}
			state.UserRating = ""
		default:
			if err := repos.RatingRepo.UpdateType(existing.ID, ratingType); err != nil {
				return err
			}
			state.UserRating = ratingType
		}

		likes, err := repos.RatingRepo.CountByType(videoID, model.RatingLike)
		if err != nil {
			return err
		}
		dislikes, err := repos.RatingRepo.CountByType(videoID, model.RatingDislike)
		if err != nil {
			return err
		}
		state.LikeCount = uint64(likes)
		state.DislikeCount = uint64(dislikes)
		return repos.VideoRepo.UpdateRatingCounts(videoID, uint64(likes), uint64(dislikes))
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	_ = s.videoRepo.InvalidateVideoCache(videoID)
	return &state, nil
}

func (s *ratingService) State(videoID, userID uint64) (*RatingState, error) {
	likes, err := s.ratingRepo.CountByType(videoID, model.RatingLike)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	dislikes, err := s.ratingRepo.CountByType(videoID, model.RatingDislike)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	state := &RatingState{LikeCount: uint64(likes), DislikeCount: uint64(dislikes)}
	if userID != 0 {
		existing, err := s.ratingRepo.FindByVideoAndUser(videoID, userID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if existing != nil {
			state.UserRating = existing.Type
		}
	}
	return state, nil
}

func (s *ratingService) RateStars(videoID, userID uint64, score uint8) (*StarSummary, error) {
	if score < 1 || score > 5 {
		return nil, apperr.Validation("星级评分必须在1到5之间")
	}
	if _, err := s.videoRepo.FindByID(videoID); err != nil {
		return nil, apperr.Wrap(err, "视频不存在", "")
	}
	if err := s.ratingRepo.UpsertStar(videoID, userID, score); err != nil {
		return nil, apperr.Internal(err)
	}
	return s.Stars(videoID, userID)
}

func (s *ratingService) Stars(videoID, userID uint64) (*StarSummary, error) {
	avg, count, err := s.ratingRepo.StarSummary(videoID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	summary := &StarSummary{Average: avg, Count: count}
	if userID != 0 {
		star, err := s.ratingRepo.FindStarByVideoAndUser(videoID, userID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if star != nil {
			summary.UserScore = star.Score
		}
	}
	return summary, nil
}
