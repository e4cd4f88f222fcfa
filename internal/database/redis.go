package database

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/liamwears/reelbase/internal/models"
)

// DefaultSessionTTL bounds how long a persisted session is kept
const DefaultSessionTTL = 7 * 24 * time.Hour

// ErrSessionNotFound is returned when no session is stored under an id
var ErrSessionNotFound = errors.New("session not found")

// RedisClient wraps the redis client
type RedisClient struct {
	*redis.Client
	logger *zap.Logger
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool
}

// NewRedisClient creates a new Redis client
func NewRedisClient(cfg RedisConfig, logger *zap.Logger) (*RedisClient, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("unable to ping Redis: %w", err)
	}

	logger.Info("connected to Redis", zap.String("addr", cfg.Addr))

	return &RedisClient{Client: client, logger: logger}, nil
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	if r.Client != nil {
		r.logger.Info("closing Redis connection")
		return r.Client.Close()
	}
	return nil
}

// Health checks the Redis connection health
func (r *RedisClient) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return r.Ping(ctx).Err()
}

// SessionStore persists authenticated sessions in Redis.
// A stored session is trusted until logout or until its TTL elapses;
// reading it does not extend the TTL.
type SessionStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewSessionStore creates a new session store
func NewSessionStore(client redis.Cmdable, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// Login persists the token and user returned by the catalog and
// returns the new session
func (s *SessionStore) Login(ctx context.Context, payload *models.AuthPayload) (*models.Session, error) {
	if payload == nil || payload.Token == "" {
		return nil, fmt.Errorf("login requires a token")
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		Token:     payload.Token,
		UserID:    payload.User.ID,
		Email:     payload.User.Email,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(session.ID), data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return session, nil
}

// Hydrate loads the session stored under an id
func (s *SessionStore) Hydrate(ctx context.Context, sessionID string) (*models.Session, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}

	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("invalid session data: %w", err)
	}
	if session.Token == "" {
		return nil, ErrSessionNotFound
	}
	session.ID = sessionID

	return &session, nil
}

// Logout removes a session
func (s *SessionStore) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Exists checks if a session exists
func (s *SessionStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	result, err := s.client.Exists(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session existence: %w", err)
	}

	return result > 0, nil
}

// TTL returns how long new sessions are kept
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}
