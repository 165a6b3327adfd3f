package service

import (
	"clipnest/internal/apperr"
	"clipnest/internal/model"
	"clipnest/internal/repository"
)

type SubscriptionService interface {
	// Subscribe 幂等；不能订阅自己
	Subscribe(subscriberID, creatorID uint64) error
	Unsubscribe(subscriberID, creatorID uint64) error
	IsSubscribed(subscriberID, creatorID uint64) (bool, error)
	SubscriberCount(creatorID uint64) (int64, error)
	SubscriptionCount(subscriberID uint64) (int64, error)
	// ListSubscriptions 返回该用户订阅的创作者列表
	ListSubscriptions(subscriberID uint64) ([]model.Subscription, error)
}

type subscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	userRepo         repository.UserRepository
}

func NewSubscriptionService(subscriptionRepo repository.SubscriptionRepository, userRepo repository.UserRepository) SubscriptionService {
	return &subscriptionService{subscriptionRepo: subscriptionRepo, userRepo: userRepo}
}

func (s *subscriptionService) Subscribe(subscriberID, creatorID uint64) error {
	if subscriberID == creatorID {
		return apperr.Validation("不能订阅自己")
	}
	creator, err := s.userRepo.FindByID(creatorID)
	if err != nil {
		return apperr.Wrap(err, "创作者不存在", "")
	}
	if !creator.IsActive {
		return apperr.NotFound("创作者不存在")
	}

	exists, err := s.subscriptionRepo.Exists(subscriberID, creatorID)
	if err != nil {
		return apperr.Internal(err)
	}
	if exists {
		return nil
	}
	sub := &model.Subscription{SubscriberID: subscriberID, CreatorID: creatorID}
	if err := s.subscriptionRepo.Create(sub); err != nil {
		if apperr.IsDuplicate(err) {
			return nil
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *subscriptionService) Unsubscribe(subscriberID, creatorID uint64) error {
	if err := s.subscriptionRepo.Delete(subscriberID, creatorID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *subscriptionService) IsSubscribed(subscriberID, creatorID uint64) (bool, error) {
	exists, err := s.subscriptionRepo.Exists(subscriberID, creatorID)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return exists, nil
}

func (s *subscriptionService) SubscriberCount(creatorID uint64) (int64, error) {
	count, err := s.subscriptionRepo.CountByCreator(creatorID)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return count, nil
}

func (s *subscriptionService) SubscriptionCount(subscriberID uint64) (int64, error) {
	count, err := s.subscriptionRepo.CountBySubscriber(subscriberID)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return count, nil
}

func (s *subscriptionService) ListSubscriptions(subscriberID uint64) ([]model.Subscription, error) {
	subs, err := s.subscriptionRepo.FindBySubscriber(subscriberID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return subs, nil
}
