package history

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caremate-health/caremate/internal/assistant"
)

func newTestStore(t *testing.T, limit int) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, limit)
}

func TestLoadEmpty(t *testing.T) {
	s := newTestStore(t, 10)
	messages, err := s.Load(context.Background(), "+1555")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestRecordAndLoad(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, "+1555", "I have a cough", "Try warm water."))
	require.NoError(t, s.Record(ctx, "+1555", "Still coughing", "See a doctor if it persists."))

	messages, err := s.Load(ctx, "+1555")
	require.NoError(t, err)
	require.Len(t, messages, 4)
	assert.Equal(t, assistant.RoleUser, messages[0].Role)
	assert.Equal(t, "I have a cough", messages[0].Content)
	assert.Equal(t, assistant.RoleAssistant, messages[3].Role)
}

func TestRecordTrimsToLimit(t *testing.T) {
	s := newTestStore(t, 4)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(ctx, "+1555", "question", "answer"))
	}

	messages, err := s.Load(ctx, "+1555")
	require.NoError(t, err)
	assert.Len(t, messages, 4)
}

func TestHistoryIsPerUser(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, "+1555", "mine", "yours"))

	messages, err := s.Load(ctx, "+1666")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestNilStoreIsSafe(t *testing.T) {
	var s *Store
	messages, err := s.Load(context.Background(), "+1555")
	require.NoError(t, err)
	assert.Nil(t, messages)
	require.NoError(t, s.Record(context.Background(), "+1555", "a", "b"))
}
