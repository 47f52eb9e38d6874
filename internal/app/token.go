package app

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	tokenLength   = 5
)

// TokenChecker reports whether a candidate token is already assigned to a quiz.
type TokenChecker interface {
	TokenExists(ctx context.Context, token string) (bool, error)
}

// TokenGenerator produces 5-character access codes from a 36-symbol alphabet
// and checks them against the quiz store before handing them out. The check
// is not atomic against concurrent creators; QuizService retries the insert
// when the store's uniqueness constraint rejects a token anyway.
type TokenGenerator struct {
	checker TokenChecker

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewTokenGenerator(checker TokenChecker) *TokenGenerator {
	return &TokenGenerator{
		checker: checker,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate returns one candidate token without any uniqueness guarantee.
func (g *TokenGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var b strings.Builder
	b.Grow(tokenLength)
	for i := 0; i < tokenLength; i++ {
		b.WriteByte(tokenAlphabet[g.rnd.Intn(len(tokenAlphabet))])
	}
	return b.String()
}

// GenerateUnique loops candidate generation until the store has no quiz with
// that token. With a 36^5 keyspace collisions stay rare, so no retry bound is
// applied here.
func (g *TokenGenerator) GenerateUnique(ctx context.Context) (string, error) {
	for {
		token := g.Generate()
		exists, err := g.checker.TokenExists(ctx, token)
		if err != nil {
			return "", err
		}
		if !exists {
			return token, nil
		}
	}
}
