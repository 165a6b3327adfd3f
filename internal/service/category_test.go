package service

import (
	"testing"

	"clipnest/internal/apperr"
	"clipnest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCRUD(t *testing.T) {
	env := newTestEnv()
	svc := NewCategoryService(env.categories, env.videos)

	t.Run("创建", func(t *testing.T) {
		category, err := svc.Create("音乐", "各种音乐内容")
		require.NoError(t, err)
		assert.NotZero(t, category.ID)
	})

	t.Run("名称重复", func(t *testing.T) {
		_, err := svc.Create("音乐", "")
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("名称为空", func(t *testing.T) {
		_, err := svc.Create("  ", "")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("改名撞已有名称", func(t *testing.T) {
		category, err := svc.Create("游戏", "")
		require.NoError(t, err)
		_, err = svc.Update(category.ID, "音乐", "")
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})
}

func TestCategoryDelete(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice", model.RoleContentCreator, true)
	svc := NewCategoryService(env.categories, env.videos)

	category, err := svc.Create("科技", "")
	require.NoError(t, err)

	video := env.addVideo(alice.ID, "挂在分类下", model.PrivacyPublic, model.StatusPublished)
	video.CategoryID = &category.ID
	require.NoError(t, env.videos.Save(video))

	t.Run("分类下还有视频时拒绝删除", func(t *testing.T) {
		err := svc.Delete(category.ID)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("清空后可删", func(t *testing.T) {
		video.CategoryID = nil
		require.NoError(t, env.videos.Save(video))
		require.NoError(t, svc.Delete(category.ID))
		_, err := svc.Get(category.ID)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}
