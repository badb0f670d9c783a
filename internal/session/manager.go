package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mentormatch/internal/redisclient"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = errors.New("会话不存在或已过期")

// localSession 本地回退缓存中的会话
type localSession struct {
	userID    string
	expiresAt time.Time
}

// Manager 会话管理器
// 会话数据写入Redis（key: session:<sid>），Redis不可用时退回到进程内缓存，
// 此时会话不能跨实例共享，仅保证单机可用
type Manager struct {
	redisClient  *redis.Client
	redisEnabled bool
	local        map[string]localSession
	mutex        sync.RWMutex
	ttl          time.Duration
}

// NewManager 创建会话管理器
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		redisClient:  redisclient.GetRedisClient(),
		redisEnabled: redisclient.IsRedisEnabled(),
		local:        make(map[string]localSession),
		ttl:          ttl,
	}
}

// sessionKey 生成Redis中的会话key
func sessionKey(sid string) string {
	return fmt.Sprintf("session:%s", sid)
}

// Create 为用户创建新会话，返回不透明的会话ID
func (m *Manager) Create(ctx context.Context, userID string) (string, error) {
	sid := uuid.New().String()

	if m.redisEnabled {
		if err := m.redisClient.Set(ctx, sessionKey(sid), userID, m.ttl).Err(); err != nil {
			return "", err
		}
		return sid, nil
	}

	m.mutex.Lock()
	m.local[sid] = localSession{userID: userID, expiresAt: time.Now().Add(m.ttl)}
	m.mutex.Unlock()
	return sid, nil
}

// GetUserID 根据会话ID解析用户ID，并顺带续期
func (m *Manager) GetUserID(ctx context.Context, sid string) (string, error) {
	if m.redisEnabled {
		userID, err := m.redisClient.Get(ctx, sessionKey(sid)).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return "", ErrSessionNotFound
			}
			return "", err
		}
		// 活跃会话滑动续期
		m.redisClient.Expire(ctx, sessionKey(sid), m.ttl)
		return userID, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	s, ok := m.local[sid]
	if !ok {
		return "", ErrSessionNotFound
	}
	if time.Now().After(s.expiresAt) {
		delete(m.local, sid)
		return "", ErrSessionNotFound
	}
	s.expiresAt = time.Now().Add(m.ttl)
	m.local[sid] = s
	return s.userID, nil
}

// Destroy 销毁会话
func (m *Manager) Destroy(ctx context.Context, sid string) error {
	if m.redisEnabled {
		return m.redisClient.Del(ctx, sessionKey(sid)).Err()
	}

	m.mutex.Lock()
	delete(m.local, sid)
	m.mutex.Unlock()
	return nil
}

// CleanupExpired 清理本地缓存中过期的会话
func (m *Manager) CleanupExpired() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := time.Now()
	for sid, s := range m.local {
		if now.After(s.expiresAt) {
			delete(m.local, sid)
		}
	}
}
