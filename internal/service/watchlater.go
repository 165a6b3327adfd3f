package service

import (
	"clipnest/internal/apperr"
	"clipnest/internal/model"
	"clipnest/internal/repository"
)

type WatchLaterService interface {
	Add(userID, videoID uint64) error
	Remove(userID, videoID uint64) error
	List(userID uint64) ([]model.WatchLater, error)
	Contains(userID, videoID uint64) (bool, error)
	Clear(userID uint64) error
}

type watchLaterService struct {
	watchLaterRepo repository.WatchLaterRepository
	videoRepo      repository.VideoRepository
}

func NewWatchLaterService(watchLaterRepo repository.WatchLaterRepository, videoRepo repository.VideoRepository) WatchLaterService {
	return &watchLaterService{watchLaterRepo: watchLaterRepo, videoRepo: videoRepo}
}

func (s *watchLaterService) Add(userID, videoID uint64) error {
	if _, err := s.videoRepo.FindByID(videoID); err != nil {
		return apperr.Wrap(err, "视频不存在", "")
	}
	exists, err := s.watchLaterRepo.Exists(userID, videoID)
	if err != nil {
		return apperr.Internal(err)
	}
	if exists {
		return apperr.Conflict("视频已在稍后再看清单中")
	}
	entry := &model.WatchLater{UserID: userID, VideoID: videoID}
	if err := s.watchLaterRepo.Create(entry); err != nil {
		// 并发下撞唯一索引同样按冲突处理
		if apperr.IsDuplicate(err) {
			return apperr.Conflict("视频已在稍后再看清单中")
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *watchLaterService) Remove(userID, videoID uint64) error {
	if err := s.watchLaterRepo.Delete(userID, videoID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *watchLaterService) List(userID uint64) ([]model.WatchLater, error) {
	entries, err := s.watchLaterRepo.FindByUser(userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return entries, nil
}

func (s *watchLaterService) Contains(userID, videoID uint64) (bool, error) {
	exists, err := s.watchLaterRepo.Exists(userID, videoID)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return exists, nil
}

func (s *watchLaterService) Clear(userID uint64) error {
	if err := s.watchLaterRepo.Clear(userID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
