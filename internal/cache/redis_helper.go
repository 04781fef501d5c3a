package cache

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/andresuchdata/stockpulse/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	keyRoot         = "stockpulse"
	clientName      = "stockpulse"
	defaultCacheTTL = time.Minute
	pingTimeout     = 5 * time.Second

	// Each keyspace holds a handful of keys per threshold or filter.
	scanBatchSize = 100
)

// keyspace is a family of keys that is invalidated as a unit.
type keyspace string

const (
	stockSummaryKeys  keyspace = "stock:summary"
	periodHistoryKeys keyspace = "periods:history"
)

func (k keyspace) prefix() string {
	return keyRoot + ":" + string(k)
}

func (k keyspace) key(parts ...string) string {
	if len(parts) == 0 {
		return k.prefix()
	}
	return k.prefix() + ":" + strings.Join(parts, ":")
}

// purge deletes every key of the keyspace and returns how many were removed.
func (k keyspace) purge(ctx context.Context, client *redis.Client) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	pattern := k.prefix() + ":*"
	for {
		keys, next, err := client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return removed, fmt.Errorf("redis scan %s failed: %w", k, err)
		}
		if len(keys) > 0 {
			n, err := client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("redis delete %s failed: %w", k, err)
			}
			removed += int(n)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	log.Debug().Str("keyspace", string(k)).Int("removed", removed).Msg("cache purged")
	return removed, nil
}

// NewRedisClient connects and pings redis, returning the client with the configured TTL.
func NewRedisClient(cfg config.CacheConfig) (*redis.Client, time.Duration, error) {
	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, 0, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, 0, fmt.Errorf("redis ping %s failed: %w", opts.Addr, err)
	}

	return client, cacheTTL(cfg), nil
}

func cacheTTL(cfg config.CacheConfig) time.Duration {
	if cfg.SummaryTTLSeconds <= 0 {
		return defaultCacheTTL
	}
	return time.Duration(cfg.SummaryTTLSeconds) * time.Second
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		if opt.ClientName == "" {
			opt.ClientName = clientName
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:       net.JoinHostPort(host, port),
		Password:   cfg.RedisPassword,
		DB:         cfg.RedisDB,
		ClientName: clientName,
	}, nil
}
