package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRecordsOutcome(t *testing.T) {
	s := New(nil)
	s.Register(Job{Name: "ok", Interval: time.Hour, Fn: func(context.Context) error { return nil }})
	s.Register(Job{Name: "bad", Interval: time.Hour, Fn: func(context.Context) error { return errors.New("boom") }})

	require.NoError(t, s.Run(context.Background(), "ok"))
	require.NoError(t, s.Run(context.Background(), "bad"))

	items := s.List()
	require.Len(t, items, 2)
	assert.Equal(t, "bad", items[0].Name)
	assert.Equal(t, StatusReject, items[0].Status)
	assert.Equal(t, "boom", items[0].Message)
	assert.Equal(t, StatusFulfill, items[1].Status)
	assert.NotNil(t, items[1].LastRunAt)
}

func TestRunUnknownJob(t *testing.T) {
	assert.Error(t, New(nil).Run(context.Background(), "missing"))
}

func TestStartRunsOnInterval(t *testing.T) {
	var calls atomic.Int32
	s := New(nil)
	s.Register(Job{Name: "tick", Interval: 10 * time.Millisecond, Fn: func(context.Context) error {
		calls.Add(1)
		return nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}
