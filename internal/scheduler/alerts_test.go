package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeNotifier) SendExpiringAlert(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestNextRun(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	s, err := NewAlertScheduler(&fakeNotifier{}, 20, 0, madrid, nil)
	require.NoError(t, err)

	before := time.Date(2025, 3, 10, 15, 0, 0, 0, madrid)
	assert.True(t, s.NextRun(before).Equal(time.Date(2025, 3, 10, 20, 0, 0, 0, madrid)))

	after := time.Date(2025, 3, 10, 20, 30, 0, 0, madrid)
	assert.True(t, s.NextRun(after).Equal(time.Date(2025, 3, 11, 20, 0, 0, 0, madrid)))

	// 18:30 UTC is 19:30 in Madrid, so the alert is still due today
	utc := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)
	assert.True(t, s.NextRun(utc).Equal(time.Date(2025, 3, 10, 20, 0, 0, 0, madrid)))
}

func TestNewAlertScheduler_InvalidTime(t *testing.T) {
	_, err := NewAlertScheduler(&fakeNotifier{}, 25, 0, time.UTC, nil)
	assert.Error(t, err)
}

func TestRunOnce(t *testing.T) {
	n := &fakeNotifier{err: errors.New("telegram down")}
	s, err := NewAlertScheduler(n, 9, 30, time.UTC, nil)
	require.NoError(t, err)

	s.RunOnce(context.Background())
	assert.Equal(t, 1, n.count())
}

func TestRun_StopsOnCancel(t *testing.T) {
	n := &fakeNotifier{}
	s, err := NewAlertScheduler(n, 3, 0, time.UTC, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}
