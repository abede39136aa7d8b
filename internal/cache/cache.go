package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks

// AnswerCache stores serialized answers keyed by question.
type AnswerCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) (int64, error)
}

// Key derives the cache key for a question. Case and surrounding whitespace
// of the question are ignored.
func Key(question string, topK int) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(question)), " ")
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", normalized, topK)))
	return hex.EncodeToString(sum[:])
}
