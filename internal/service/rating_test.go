package service

import (
	"testing"

	"clipnest/internal/apperr"
	"clipnest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingToggle(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("alice", model.RoleRegisteredUser, true)
	video := env.addVideo(user.ID, "测试视频", model.PrivacyPublic, model.StatusPublished)
	svc := NewRatingService(env.ratings, env.videos, env.uow)

	t.Run("无评分时点赞", func(t *testing.T) {
		state, err := svc.Toggle(video.ID, user.ID, model.RatingLike)
		require.NoError(t, err)
		assert.Equal(t, model.RatingLike, state.UserRating)
		assert.Equal(t, uint64(1), state.LikeCount)
		assert.Equal(t, uint64(0), state.DislikeCount)
	})

	t.Run("同类评分再点取消", func(t *testing.T) {
		state, err := svc.Toggle(video.ID, user.ID, model.RatingLike)
		require.NoError(t, err)
		assert.Empty(t, state.UserRating)
		assert.Equal(t, uint64(0), state.LikeCount)
	})

	t.Run("异类评分改写", func(t *testing.T) {
		_, err := svc.Toggle(video.ID, user.ID, model.RatingLike)
		require.NoError(t, err)
		state, err := svc.Toggle(video.ID, user.ID, model.RatingDislike)
		require.NoError(t, err)
		assert.Equal(t, model.RatingDislike, state.UserRating)
		assert.Equal(t, uint64(0), state.LikeCount)
		assert.Equal(t, uint64(1), state.DislikeCount)
	})

	t.Run("视频冗余计数同步重算", func(t *testing.T) {
		stored, err := env.videos.FindByID(video.ID)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), stored.LikeCount)
		assert.Equal(t, uint64(1), stored.DislikeCount)
	})

	t.Run("非法评分类型", func(t *testing.T) {
		_, err := svc.Toggle(video.ID, user.ID, "MEH")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("视频不存在", func(t *testing.T) {
		_, err := svc.Toggle(9999, user.ID, model.RatingLike)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestRatingState(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice", model.RoleRegisteredUser, true)
	bob := env.addUser("bob", model.RoleRegisteredUser, true)
	video := env.addVideo(alice.ID, "测试视频", model.PrivacyPublic, model.StatusPublished)
	svc := NewRatingService(env.ratings, env.videos, env.uow)

	_, err := svc.Toggle(video.ID, alice.ID, model.RatingLike)
	require.NoError(t, err)
	_, err = svc.Toggle(video.ID, bob.ID, model.RatingDislike)
	require.NoError(t, err)

	t.Run("登录用户看到自己的评分", func(t *testing.T) {
		state, err := svc.State(video.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), state.LikeCount)
		assert.Equal(t, uint64(1), state.DislikeCount)
		assert.Equal(t, model.RatingDislike, state.UserRating)
	})

	t.Run("匿名访客只看到计数", func(t *testing.T) {
		state, err := svc.State(video.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), state.LikeCount)
		assert.Empty(t, state.UserRating)
	})
}

func TestRatingStars(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice", model.RoleRegisteredUser, true)
	bob := env.addUser("bob", model.RoleRegisteredUser, true)
	video := env.addVideo(alice.ID, "测试视频", model.PrivacyPublic, model.StatusPublished)
	svc := NewRatingService(env.ratings, env.videos, env.uow)

	t.Run("分数超出范围", func(t *testing.T) {
		_, err := svc.RateStars(video.ID, alice.ID, 0)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		_, err = svc.RateStars(video.ID, alice.ID, 6)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("打分后返回均值", func(t *testing.T) {
		_, err := svc.RateStars(video.ID, alice.ID, 5)
		require.NoError(t, err)
		summary, err := svc.RateStars(video.ID, bob.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(2), summary.Count)
		assert.InDelta(t, 4.0, summary.Average, 0.001)
		assert.Equal(t, uint8(3), summary.UserScore)
	})

	t.Run("重复打分覆盖旧分", func(t *testing.T) {
		summary, err := svc.RateStars(video.ID, bob.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), summary.Count)
		assert.InDelta(t, 3.0, summary.Average, 0.001)
	})

	t.Run("没打过分的用户UserScore为0", func(t *testing.T) {
		summary, err := svc.Stars(video.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, uint8(0), summary.UserScore)
	})
}
