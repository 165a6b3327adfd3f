package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// CookieName 是会话Cookie的名字，也是整个系统唯一的认证载体
const CookieName = "clipnest_sid"

// CurrentUser 是登录后写入会话的用户快照，中间件解析后作为不可变值放入请求上下文
type CurrentUser struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (u *CurrentUser) IsAdmin() bool {
	return u.Role == "ADMIN"
}

// Store 是基于Redis的会话存储：token -> 用户快照JSON，带TTL
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) key(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// Create 生成会话token并将用户快照写入Redis
func (s *Store) Create(ctx context.Context, user CurrentUser) (string, error) {
	token := uuid.NewString()
	data, err := json.Marshal(user)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, s.key(token), data, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Get 根据token取回用户快照，会话不存在时返回(nil, nil)
func (s *Store) Get(ctx context.Context, token string) (*CurrentUser, error) {
	data, err := s.rdb.Get(ctx, s.key(token)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	var user CurrentUser
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete 注销会话，token不存在也视为成功
func (s *Store) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, s.key(token)).Err()
}
