package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/onropepro/onrope-backend/internal/platform/logger"
)

// AnswerCache memoizes pure-knowledge answers per company. Data answers are
// never cached; they must reflect live records.
type AnswerCache interface {
	Get(ctx context.Context, companyID uuid.UUID, query string) (*AssistantResult, bool)
	Set(ctx context.Context, companyID uuid.UUID, query string, result *AssistantResult)
}

type redisAnswerCache struct {
	client *redis.Client
	log    *logger.Logger
	ttl    time.Duration
}

// NewRedisAnswerCache returns nil when addr is empty; the composer treats a
// nil cache as disabled. A broken Redis is logged and ignored, never surfaced.
func NewRedisAnswerCache(addr, password string, ttl time.Duration, log *logger.Logger) AnswerCache {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &redisAnswerCache{
		client: client,
		log:    log.With("service", "AnswerCache"),
		ttl:    ttl,
	}
}

func (c *redisAnswerCache) Get(ctx context.Context, companyID uuid.UUID, query string) (*AssistantResult, bool) {
	raw, err := c.client.Get(ctx, cacheKey(companyID, query)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("Answer cache read failed", "error", err)
		}
		return nil, false
	}
	var result AssistantResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		c.log.Warn("Answer cache entry did not parse", "error", err)
		return nil, false
	}
	return &result, true
}

func (c *redisAnswerCache) Set(ctx context.Context, companyID uuid.UUID, query string, result *AssistantResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(companyID, query), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Answer cache write failed", "error", err)
	}
}

func cacheKey(companyID uuid.UUID, query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return "assistant:answer:" + companyID.String() + ":" + hex.EncodeToString(sum[:8])
}
