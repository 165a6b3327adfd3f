package service

import (
	"testing"

	"clipnest/internal/apperr"
	"clipnest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserRegister(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, env.videos, env.uow)

	t.Run("注册成功", func(t *testing.T) {
		user, err := svc.Register(RegisterInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "secret123",
		})
		require.NoError(t, err)
		assert.Equal(t, model.RoleRegisteredUser, user.Role)
		assert.True(t, user.IsActive)
		// 密码必须以bcrypt散列入库
		assert.NotEqual(t, "secret123", user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))
	})

	t.Run("用户名重复", func(t *testing.T) {
		_, err := svc.Register(RegisterInput{Username: "alice", Email: "other@example.com", Password: "x"})
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("邮箱重复", func(t *testing.T) {
		_, err := svc.Register(RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "x"})
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})
}

func TestUserLogin(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, env.videos, env.uow)

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	t.Run("用户名登录", func(t *testing.T) {
		user, err := svc.Login("alice", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("邮箱登录", func(t *testing.T) {
		_, err := svc.Login("alice@example.com", "secret123")
		assert.NoError(t, err)
	})

	t.Run("密码错误、账号不存在、账号停用返回同一个模糊提示", func(t *testing.T) {
		_, err := svc.Login("alice", "wrong")
		require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
		wrongPassMsg := err.Error()

		_, err = svc.Login("nobody", "secret123")
		require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
		assert.Equal(t, wrongPassMsg, err.Error())

		require.NoError(t, svc.Deactivate(1))
		_, err = svc.Login("alice", "secret123")
		require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
		assert.Equal(t, wrongPassMsg, err.Error())
	})
}

func TestUserUpdateAndRoles(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, env.videos, env.uow)
	user, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "x", Bio: "旧签名"})
	require.NoError(t, err)

	t.Run("只动非nil字段", func(t *testing.T) {
		bio := "新签名"
		updated, err := svc.Update(user.ID, UpdateUserInput{Bio: &bio})
		require.NoError(t, err)
		assert.Equal(t, "新签名", updated.Bio)
		assert.Equal(t, "alice@example.com", updated.Email)
	})

	t.Run("升级为创作者", func(t *testing.T) {
		updated, err := svc.BecomeCreator(user.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RoleContentCreator, updated.Role)
		// 再次调用幂等
		again, err := svc.BecomeCreator(user.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RoleContentCreator, again.Role)
	})

	t.Run("管理员改角色", func(t *testing.T) {
		updated, err := svc.ChangeRole(user.ID, model.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, updated.Role)
		_, err = svc.ChangeRole(user.ID, "SUPERUSER")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestUserHardDelete(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, env.videos, env.uow)
	user, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "x"})
	require.NoError(t, err)

	video := env.addVideo(user.ID, "随用户一起删", model.PrivacyPublic, model.StatusPublished)
	video.FilePath = "/uploads/videos/a.mp4"
	require.NoError(t, env.videos.Save(video))

	files, err := svc.HardDelete(user.ID)
	require.NoError(t, err)
	assert.Contains(t, files, "/uploads/videos/a.mp4")

	_, err = env.users.FindByID(user.ID)
	assert.Error(t, err)
	_, err = env.videos.FindByID(video.ID)
	assert.Error(t, err)

	_, err = svc.HardDelete(user.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

// 硬删除也要清掉用户挂在别人内容上的行：评论、点赞、评分、
// 播放列表、稍后再看和两个方向的订阅关系
func TestUserHardDeleteForeignContent(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, env.videos, env.uow)
	alice := env.addUser("alice", model.RoleRegisteredUser, true)
	bob := env.addUser("bob", model.RoleContentCreator, true)
	bobVideo := env.addVideo(bob.ID, "留下来的视频", model.PrivacyPublic, model.StatusPublished)

	// alice在bob的视频下评论，bob回复了这条评论
	aliceComment := &model.Comment{VideoID: bobVideo.ID, UserID: alice.ID, Content: "不错"}
	require.NoError(t, env.comments.Create(aliceComment))
	bobReply := &model.Comment{VideoID: bobVideo.ID, UserID: bob.ID, Content: "谢谢", ParentID: &aliceComment.ID}
	require.NoError(t, env.comments.Create(bobReply))
	bobComment := &model.Comment{VideoID: bobVideo.ID, UserID: bob.ID, Content: "自评"}
	require.NoError(t, env.comments.Create(bobComment))
	require.NoError(t, env.comments.CreateLike(&model.CommentLike{CommentID: bobComment.ID, UserID: alice.ID}))

	// alice点赞了bob的视频，冗余计数同步在视频行上
	require.NoError(t, env.ratings.Create(&model.Rating{VideoID: bobVideo.ID, UserID: alice.ID, Type: model.RatingLike}))
	bobVideo.LikeCount = 1
	require.NoError(t, env.videos.Save(bobVideo))
	require.NoError(t, env.ratings.UpsertStar(bobVideo.ID, alice.ID, 4))

	playlist := &model.Playlist{UserID: alice.ID, Name: "收藏", Privacy: model.PrivacyPublic}
	require.NoError(t, env.playlists.Create(playlist))
	require.NoError(t, env.playlists.CreateEntry(&model.PlaylistVideo{PlaylistID: playlist.ID, VideoID: bobVideo.ID, Position: 1}))
	require.NoError(t, env.watchLater.Create(&model.WatchLater{UserID: alice.ID, VideoID: bobVideo.ID}))
	require.NoError(t, env.subs.Create(&model.Subscription{SubscriberID: alice.ID, CreatorID: bob.ID}))
	require.NoError(t, env.subs.Create(&model.Subscription{SubscriberID: bob.ID, CreatorID: alice.ID}))

	_, err := svc.HardDelete(alice.ID)
	require.NoError(t, err)

	// bob的视频还在，但alice的痕迹全部清掉，回复跟父评论一起删
	video, err := env.videos.FindByID(bobVideo.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), video.LikeCount)
	_, err = env.comments.FindByID(aliceComment.ID)
	assert.Error(t, err)
	_, err = env.comments.FindByID(bobReply.ID)
	assert.Error(t, err)
	_, err = env.comments.FindByID(bobComment.ID)
	assert.NoError(t, err)
	liked, err := env.comments.LikeExists(bobComment.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	rating, err := env.ratings.FindByVideoAndUser(bobVideo.ID, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, rating)
	star, err := env.ratings.FindStarByVideoAndUser(bobVideo.ID, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, star)

	playlists, err := env.playlists.FindByUser(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, playlists)
	entries, err := env.playlists.FindEntries(playlist.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	watchLater, err := env.watchLater.FindByUser(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, watchLater)

	asSubscriber, err := env.subs.CountBySubscriber(alice.ID)
	require.NoError(t, err)
	assert.Zero(t, asSubscriber)
	asCreator, err := env.subs.CountByCreator(alice.ID)
	require.NoError(t, err)
	assert.Zero(t, asCreator)
}
