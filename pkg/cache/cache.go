package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/domain/checker"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const scoreKeyPattern = "score:%s"

type Config struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// ScoreCache memoizes classification results keyed by a hash of the input
// text, so identical text shares a score across users. Redis is optional;
// the in-process TTL map always participates and absorbs redis outages.
type ScoreCache struct {
	client *redis.Client
	local  *TTLMap
	ttl    time.Duration
	logger *logrus.Logger
}

func NewScoreCache(config Config, logger *logrus.Logger) *ScoreCache {
	ttl := config.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	var client *redis.Client
	if config.Enabled && config.Host != "" {
		client = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
			Password: config.Password,
			DB:       config.DB,
		})
	}

	return &ScoreCache{
		client: client,
		local:  NewTTLMap(ttl),
		ttl:    ttl,
		logger: logger,
	}
}

func (c *ScoreCache) Get(ctx context.Context, text string) (checker.ScoreResult, bool) {
	key := scoreKey(text)

	if value, ok := c.local.Get(key); ok {
		if result, ok := value.(checker.ScoreResult); ok {
			return result, true
		}
	}

	if c.client == nil {
		return checker.ScoreResult{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).Debug("score cache read failed")
		}
		return checker.ScoreResult{}, false
	}

	var result checker.ScoreResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		c.logger.WithError(err).Debug("score cache entry corrupted")
		return checker.ScoreResult{}, false
	}

	c.local.Set(key, result)
	return result, true
}

func (c *ScoreCache) Set(ctx context.Context, text string, result checker.ScoreResult) {
	key := scoreKey(text)
	c.local.Set(key, result)

	if c.client == nil {
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.client.Set(ctx, key, string(raw), c.ttl).Err(); err != nil {
		c.logger.WithError(err).Debug("score cache write failed")
	}
}

func scoreKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf(scoreKeyPattern, hex.EncodeToString(sum[:]))
}
