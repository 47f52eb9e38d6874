package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"quiz-management-service/internal/domain"
	"quiz-management-service/internal/infra/memory"
)

type countingLookup struct {
	store *memory.Store
	calls int
}

func (c *countingLookup) GetQuizByToken(ctx context.Context, token string) (*domain.Quiz, error) {
	c.calls++
	return c.store.GetQuizByToken(ctx, token)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func seedQuiz(t *testing.T, store *memory.Store, token string) *domain.Quiz {
	t.Helper()
	quiz := &domain.Quiz{AdminID: 1, Name: "seeded", TotalMark: 10, Token: token, IsActive: true}
	if err := store.CreateQuiz(context.Background(), quiz); err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	return quiz
}

func TestTokenCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := memory.NewStore()
	quiz := seedQuiz(t, store, "RDS01")
	lookup := &countingLookup{store: store}
	cache := NewTokenCache(newClient(mr), lookup, time.Minute)

	found, err := cache.ResolveToken(ctx, "RDS01")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if found.ID != quiz.ID {
		t.Fatalf("expected quiz %d, got %d", quiz.ID, found.ID)
	}
	if lookup.calls != 1 {
		t.Fatalf("expected one store lookup, got %d", lookup.calls)
	}

	// Second call is served from redis, loader not incremented.
	if _, err := cache.ResolveToken(ctx, "RDS01"); err != nil {
		t.Fatalf("resolve cached: %v", err)
	}
	if lookup.calls != 1 {
		t.Fatalf("expected cache hit, got %d lookups", lookup.calls)
	}
	if !mr.Exists("quiz:token:RDS01") {
		t.Fatalf("expected cached key in redis")
	}
}

func TestTokenCacheExpiryFallsThrough(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := memory.NewStore()
	seedQuiz(t, store, "RDS02")
	lookup := &countingLookup{store: store}
	cache := NewTokenCache(newClient(mr), lookup, time.Minute)

	if _, err := cache.ResolveToken(ctx, "RDS02"); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// Jitter keeps the TTL between 1x and 1.1x of the configured minute.
	mr.FastForward(2 * time.Minute)

	if _, err := cache.ResolveToken(ctx, "RDS02"); err != nil {
		t.Fatalf("resolve after expiry: %v", err)
	}
	if lookup.calls != 2 {
		t.Fatalf("expected reload after TTL, got %d lookups", lookup.calls)
	}
}

func TestTokenCacheInvalidateDropsKey(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := memory.NewStore()
	quiz := seedQuiz(t, store, "RDS03")
	lookup := &countingLookup{store: store}
	cache := NewTokenCache(newClient(mr), lookup, time.Minute)

	if _, err := cache.ResolveToken(ctx, "RDS03"); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	quiz.IsActive = false
	if err := store.UpdateQuiz(ctx, quiz); err != nil {
		t.Fatalf("deactivate quiz: %v", err)
	}
	cache.Invalidate(ctx, "RDS03")

	if _, err := cache.ResolveToken(ctx, "RDS03"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected deactivated quiz to stop resolving, got %v", err)
	}
	if mr.Exists("quiz:token:RDS03") {
		t.Fatalf("expected key removed from redis")
	}
}
