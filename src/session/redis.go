package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/pullerize/my-main-tasks-sub000/pkg"
)

const wizardKeyPrefix = "wizard:"

// RedisStore backs wizard sessions with Redis so multiple engine processes
// can share them. Reads refresh the TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis at redisURL and verifies the connection
func NewRedisStore(ctx context.Context, redisURL string, ttlSeconds int) (*RedisStore, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func (r *RedisStore) key(userID int64) string {
	return wizardKeyPrefix + strconv.FormatInt(userID, 10)
}

// Get reads and touches the user's session
func (r *RedisStore) Get(ctx context.Context, userID int64) (*pkg.Session, error) {
	cmd := r.client.Do(ctx, "GETEX", r.key(userID), "EX", int64(r.ttl.Seconds()))
	data, err := cmd.Text()
	if err != nil {
		if err == redis.Nil {
			return nil, pkg.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session pkg.Session
	if err := sonic.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Save stores or overwrites the user's session with the configured TTL
func (r *RedisStore) Save(ctx context.Context, session *pkg.Session) error {
	now := time.Now().Unix()
	if session.CreatedAt == 0 {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	data, err := sonic.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, r.key(session.UserID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Delete removes the user's session
func (r *RedisStore) Delete(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Ping tests the Redis connection
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}
