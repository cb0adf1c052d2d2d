package checkin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	users []string
	err   error
}

func (f *fakeLister) ListDistinctUsers(_ context.Context) ([]string, error) {
	return f.users, f.err
}

type fakeMessenger struct {
	sent    []string
	failFor map[string]bool
}

func (f *fakeMessenger) Send(_ context.Context, to, _ string) (string, error) {
	f.sent = append(f.sent, to)
	if f.failFor[to] {
		return "", errors.New("gateway rejected")
	}
	return "SM1", nil
}

func TestRunSendsToEveryUser(t *testing.T) {
	lister := &fakeLister{users: []string{"+911111111111", "+912222222222", "+913333333333"}}
	messenger := &fakeMessenger{}
	s, err := NewScheduler(lister, messenger, 9, nil, nil)
	require.NoError(t, err)

	s.Run(context.Background())
	assert.Equal(t, lister.users, messenger.sent)
}

func TestRunFailureDoesNotStopRound(t *testing.T) {
	lister := &fakeLister{users: []string{"+911111111111", "+912222222222", "+913333333333"}}
	messenger := &fakeMessenger{failFor: map[string]bool{"+912222222222": true}}
	s, err := NewScheduler(lister, messenger, 9, nil, nil)
	require.NoError(t, err)

	s.Run(context.Background())
	// Every user still gets exactly one attempt.
	assert.Len(t, messenger.sent, 3)
}

func TestRunListFailureAborts(t *testing.T) {
	lister := &fakeLister{err: errors.New("db down")}
	messenger := &fakeMessenger{}
	s, err := NewScheduler(lister, messenger, 9, nil, nil)
	require.NoError(t, err)

	s.Run(context.Background())
	assert.Empty(t, messenger.sent)
}

func TestNewSchedulerRejectsBadHour(t *testing.T) {
	_, err := NewScheduler(&fakeLister{}, &fakeMessenger{}, 24, nil, nil)
	require.Error(t, err)
	_, err = NewScheduler(&fakeLister{}, &fakeMessenger{}, -1, nil, nil)
	require.Error(t, err)
}
