package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/monocle-dev/house/internal/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Blacklist records revoked refresh tokens by jti.
type Blacklist interface {
	// Add revokes jti until expiresAt. It returns ErrTokenBlacklisted when
	// the jti is already revoked.
	Add(ctx context.Context, jti string, userID uint, expiresAt time.Time) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// GormBlacklist keeps revoked tokens in the blacklisted_tokens table.
type GormBlacklist struct {
	db *gorm.DB
}

func NewGormBlacklist(db *gorm.DB) *GormBlacklist {
	return &GormBlacklist{db: db}
}

func (b *GormBlacklist) Add(ctx context.Context, jti string, userID uint, expiresAt time.Time) error {
	row := models.BlacklistedToken{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}

	result := b.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "jti"}}, DoNothing: true}).
		Create(&row)
	if result.Error != nil {
		return fmt.Errorf("blacklist token: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrTokenBlacklisted
	}

	return nil
}

func (b *GormBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	var count int64

	err := b.db.WithContext(ctx).
		Model(&models.BlacklistedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("lookup blacklisted token: %w", err)
	}

	return count > 0, nil
}

// Purge deletes rows whose token has expired; the signature check rejects those anyway.
func (b *GormBlacklist) Purge(ctx context.Context, now time.Time) (int64, error) {
	result := b.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.BlacklistedToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("purge blacklisted tokens: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// RedisBlacklist stores each revoked jti as a key that expires with the token.
type RedisBlacklist struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client, now: time.Now}
}

func blacklistKey(jti string) string {
	return "blacklist:" + jti
}

func (b *RedisBlacklist) Add(ctx context.Context, jti string, userID uint, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.now())
	if ttl < time.Second {
		ttl = time.Second
	}

	ok, err := b.client.SetNX(ctx, blacklistKey(jti), strconv.FormatUint(uint64(userID), 10), ttl).Result()
	if err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	if !ok {
		return ErrTokenBlacklisted
	}

	return nil
}

func (b *RedisBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("lookup blacklisted token: %w", err)
	}

	return n > 0, nil
}

// NewRedisClient parses a redis:// URL and verifies the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
