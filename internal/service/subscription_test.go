package service

import (
	"testing"

	"clipnest/internal/apperr"
	"clipnest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice", model.RoleRegisteredUser, true)
	creator := env.addUser("creator", model.RoleContentCreator, true)
	inactive := env.addUser("ghost", model.RoleContentCreator, false)
	svc := NewSubscriptionService(env.subs, env.users)

	t.Run("正常订阅", func(t *testing.T) {
		require.NoError(t, svc.Subscribe(alice.ID, creator.ID))
		subscribed, err := svc.IsSubscribed(alice.ID, creator.ID)
		require.NoError(t, err)
		assert.True(t, subscribed)
	})

	t.Run("重复订阅幂等", func(t *testing.T) {
		require.NoError(t, svc.Subscribe(alice.ID, creator.ID))
		count, err := svc.SubscriberCount(creator.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("不能订阅自己", func(t *testing.T) {
		err := svc.Subscribe(alice.ID, alice.ID)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("创作者不存在", func(t *testing.T) {
		err := svc.Subscribe(alice.ID, 9999)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("停用账号不可订阅", func(t *testing.T) {
		err := svc.Subscribe(alice.ID, inactive.ID)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestUnsubscribe(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice", model.RoleRegisteredUser, true)
	creator := env.addUser("creator", model.RoleContentCreator, true)
	svc := NewSubscriptionService(env.subs, env.users)

	require.NoError(t, svc.Subscribe(alice.ID, creator.ID))
	require.NoError(t, svc.Unsubscribe(alice.ID, creator.ID))

	subscribed, err := svc.IsSubscribed(alice.ID, creator.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)

	// 没订阅过时退订也不报错
	assert.NoError(t, svc.Unsubscribe(alice.ID, creator.ID))
}

func TestListSubscriptions(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser("alice", model.RoleRegisteredUser, true)
	c1 := env.addUser("creator1", model.RoleContentCreator, true)
	c2 := env.addUser("creator2", model.RoleContentCreator, true)
	svc := NewSubscriptionService(env.subs, env.users)

	require.NoError(t, svc.Subscribe(alice.ID, c1.ID))
	require.NoError(t, svc.Subscribe(alice.ID, c2.ID))

	subs, err := svc.ListSubscriptions(alice.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	count, err := svc.SubscriptionCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
