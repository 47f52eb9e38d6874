package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quiz-management-service/internal/domain"
)

// TokenLookup resolves an access token against the backing quiz store.
type TokenLookup interface {
	GetQuizByToken(ctx context.Context, token string) (*domain.Quiz, error)
}

// TokenCache keeps quiz-by-token lookups in Redis so every instance shares
// one warm cache. The quiz row is stored as JSON under quiz:token:{token}
// with a jittered TTL; misses fall through to the store under singleflight.
type TokenCache struct {
	client *redis.Client
	lookup TokenLookup
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewTokenCache(client *redis.Client, lookup TokenLookup, ttl time.Duration) *TokenCache {
	return &TokenCache{
		client: client,
		lookup: lookup,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *TokenCache) ResolveToken(ctx context.Context, token string) (*domain.Quiz, error) {
	key := c.key(token)

	if quiz, ok := c.cached(ctx, key); ok {
		return quiz, nil
	}

	result, err, _ := c.sf.Do(token, func() (interface{}, error) {
		// Re-check in case another goroutine filled the key.
		if quiz, ok := c.cached(ctx, key); ok {
			return *quiz, nil
		}

		quiz, err := c.lookup.GetQuizByToken(ctx, token)
		if err != nil {
			return domain.Quiz{}, err
		}

		data, err := json.Marshal(quiz)
		if err == nil {
			if err := c.client.Set(ctx, key, data, c.ttlWithJitter()).Err(); err != nil {
				log.Printf("cache quiz token %s: %v", token, err)
			}
		}
		return *quiz, nil
	})
	if err != nil {
		return nil, err
	}
	quiz := result.(domain.Quiz)
	return &quiz, nil
}

// Invalidate drops the cached row; deactivated or deleted quizzes stop
// resolving without waiting for the TTL. Best effort only.
func (c *TokenCache) Invalidate(ctx context.Context, token string) {
	if err := c.client.Del(ctx, c.key(token)).Err(); err != nil {
		log.Printf("invalidate quiz token %s: %v", token, err)
	}
}

func (c *TokenCache) cached(ctx context.Context, key string) (*domain.Quiz, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("read quiz token cache: %v", err)
		}
		return nil, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return nil, false
	}
	return &quiz, true
}

func (c *TokenCache) key(token string) string {
	return "quiz:token:" + token
}

func (c *TokenCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
