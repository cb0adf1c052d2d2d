package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/caremate-health/caremate/internal/assistant"
)

const historyTTL = 24 * time.Hour

// Store caches recent conversation turns per user in Redis so the direct API
// path can inject prior-turn context. Best-effort: a missing or unreachable
// cache means an empty history, never a failed flow.
type Store struct {
	redis  *redis.Client
	tracer trace.Tracer
	limit  int
}

// NewStore wraps a Redis client. limit bounds how many segments are kept.
func NewStore(client *redis.Client, limit int) *Store {
	if client == nil {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}
	return &Store{
		redis:  client,
		tracer: otel.Tracer("caremate.internal.history"),
		limit:  limit,
	}
}

// Load returns the cached turns for a user, oldest first. A nil store or an
// absent key yields an empty history.
func (s *Store) Load(ctx context.Context, userID string) ([]assistant.Message, error) {
	if s == nil || s.redis == nil {
		return nil, nil
	}
	ctx, span := s.tracer.Start(ctx, "history.load")
	defer span.End()

	data, err := s.redis.Get(ctx, historyKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("history: load: %w", err)
	}

	var messages []assistant.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("history: decode: %w", err)
	}
	return messages, nil
}

// Record appends a user/assistant turn pair and trims to the configured limit.
func (s *Store) Record(ctx context.Context, userID, userText, replyText string) error {
	if s == nil || s.redis == nil {
		return nil
	}
	ctx, span := s.tracer.Start(ctx, "history.record")
	defer span.End()

	messages, err := s.Load(ctx, userID)
	if err != nil {
		return err
	}
	messages = append(messages,
		assistant.Message{Role: assistant.RoleUser, Content: userText},
		assistant.Message{Role: assistant.RoleAssistant, Content: replyText},
	)
	if len(messages) > s.limit {
		messages = messages[len(messages)-s.limit:]
	}

	data, err := json.Marshal(messages)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("history: encode: %w", err)
	}
	if err := s.redis.Set(ctx, historyKey(userID), data, historyTTL).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("history: persist: %w", err)
	}
	return nil
}

func historyKey(userID string) string {
	return fmt.Sprintf("history:%s", userID)
}
