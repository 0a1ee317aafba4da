package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
	block chan struct{}
	err   error
}

func (s *countingSweeper) SweepAll(ctx context.Context) (int, error) {
	s.calls.Add(1)
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return 1, s.err
}

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New("every now and then", time.UTC, &countingSweeper{}, 0)
	assert.ErrorContains(t, err, "invalid sweep schedule")
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	sw := &countingSweeper{}
	s, err := New("@every 1s", time.UTC, sw, time.Second)
	require.NoError(t, err)

	s.Start()
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool { return sw.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestScheduler_RunOnceSkipsOverlap(t *testing.T) {
	sw := &countingSweeper{block: make(chan struct{})}
	s, err := New("@every 1h", time.UTC, sw, 0)
	require.NoError(t, err)

	first := make(chan bool)
	go func() { first <- s.RunOnce(context.Background()) }()

	require.Eventually(t, func() bool { return sw.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, s.RunOnce(context.Background()))

	close(sw.block)
	assert.True(t, <-first)
	assert.Equal(t, int32(1), sw.calls.Load())
}

func TestScheduler_RunOnceReportsErrors(t *testing.T) {
	sw := &countingSweeper{err: errors.New("store-b: unavailable")}
	s, err := New("0 3 * * *", time.UTC, sw, 0)
	require.NoError(t, err)

	assert.True(t, s.RunOnce(context.Background()))
	assert.Equal(t, int32(1), sw.calls.Load())
}
