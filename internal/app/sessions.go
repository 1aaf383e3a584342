package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	timeFormat  = "2006-01-02 15:04:05"
	tokenPrefix = "sess-bolao-"
)

// SessionStore keeps admin sessions keyed by an opaque cookie token.
type SessionStore interface {
	Create(ctx context.Context) (string, error)
	Valid(ctx context.Context, token string) (bool, error)
	Destroy(ctx context.Context, token string) error
	Close() error
}

func NewSessionStore(config *Config) (SessionStore, error) {
	ttl := time.Duration(config.Session.TTLMinutes) * time.Minute
	if config.Session.RedisURL == "" {
		return NewMemorySessions(ttl), nil
	}

	opt, err := redis.ParseURL(config.Session.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisSessions(client, config.Session.KeyTemplate, ttl), nil
}

func generateToken() (string, error) {
	randomBytes := make([]byte, 24)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return tokenPrefix + hex.EncodeToString(randomBytes), nil
}

type RedisSessions struct {
	redis       *redis.Client
	keyTemplate string
	ttl         time.Duration
}

func NewRedisSessions(client *redis.Client, keyTemplate string, ttl time.Duration) *RedisSessions {
	return &RedisSessions{redis: client, keyTemplate: keyTemplate, ttl: ttl}
}

func (s *RedisSessions) key(token string) string {
	return strings.ReplaceAll(s.keyTemplate, "{token}", token)
}

func (s *RedisSessions) Create(ctx context.Context) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	key := s.key(token)
	pipe := s.redis.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"created_dttm_utc": time.Now().UTC().Format(timeFormat),
	})
	pipe.Expire(ctx, key, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return token, nil
}

func (s *RedisSessions) Valid(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	n, err := s.redis.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return n == 1, nil
}

func (s *RedisSessions) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.redis.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

func (s *RedisSessions) Close() error {
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}

// MemorySessions is used when no redis is configured. Sessions do not
// survive a restart.
type MemorySessions struct {
	mu      sync.Mutex
	ttl     time.Duration
	expires map[string]time.Time
	nowFunc func() time.Time
}

func NewMemorySessions(ttl time.Duration) *MemorySessions {
	return &MemorySessions{
		ttl:     ttl,
		expires: make(map[string]time.Time),
		nowFunc: time.Now,
	}
}

func (s *MemorySessions) Create(ctx context.Context) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	for t, expires := range s.expires {
		if !now.Before(expires) {
			delete(s.expires, t)
		}
	}
	s.expires[token] = now.Add(s.ttl)
	return token, nil
}

func (s *MemorySessions) Valid(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expires, ok := s.expires[token]
	if !ok {
		return false, nil
	}
	if !s.nowFunc().Before(expires) {
		delete(s.expires, token)
		return false, nil
	}
	return true, nil
}

func (s *MemorySessions) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expires, token)
	return nil
}

func (s *MemorySessions) Close() error {
	return nil
}
