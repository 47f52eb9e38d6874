package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quiz-management-service/internal/domain"
)

// TokenLookup resolves an access token against the backing quiz store.
type TokenLookup interface {
	GetQuizByToken(ctx context.Context, token string) (*domain.Quiz, error)
}

// TokenCache caches quiz-by-token lookups with TTL to avoid hammering the
// store on every participant join. Only successful (active quiz) lookups are
// cached.
type TokenCache struct {
	lookup TokenLookup
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedQuiz
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewTokenCache(lookup TokenLookup, ttl time.Duration) *TokenCache {
	return &TokenCache{
		lookup: lookup,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuiz),
	}
}

func (c *TokenCache) ResolveToken(ctx context.Context, token string) (*domain.Quiz, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[token]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		quiz := entry.quiz
		return &quiz, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(token, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[token]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.quiz, nil
		}
		c.mu.RUnlock()

		quiz, err := c.lookup.GetQuizByToken(ctx, token)
		if err != nil {
			return domain.Quiz{}, err
		}

		c.mu.Lock()
		c.cache[token] = cachedQuiz{
			quiz:      *quiz,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return *quiz, nil
	})
	if err != nil {
		return nil, err
	}
	quiz := result.(domain.Quiz)
	return &quiz, nil
}

// Invalidate drops the cached entry so mutations become visible before the
// TTL runs out.
func (c *TokenCache) Invalidate(_ context.Context, token string) {
	c.mu.Lock()
	delete(c.cache, token)
	c.mu.Unlock()
}

func (c *TokenCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
