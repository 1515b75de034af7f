package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingRefresher struct {
	n   int32
	err error
}

func (c *countingRefresher) Refresh(context.Context) error {
	atomic.AddInt32(&c.n, 1)
	return c.err
}

func TestRegister_RejectsBadExpression(t *testing.T) {
	s := NewScheduler(context.Background(), &countingRefresher{}, zap.NewNop())
	err := s.Register("every tuesday")
	assert.Error(t, err)
}

func TestRegister_EmptyExpressionIsNoop(t *testing.T) {
	s := NewScheduler(context.Background(), &countingRefresher{}, zap.NewNop())
	require.NoError(t, s.Register(""))
	assert.Empty(t, s.Cron.Entries())
}

func TestRegister_AddsEntry(t *testing.T) {
	s := NewScheduler(context.Background(), &countingRefresher{}, zap.NewNop())
	require.NoError(t, s.Register("0 30 21 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)
}

func TestRunNow(t *testing.T) {
	r := &countingRefresher{err: errors.New("ignored")}
	s := NewScheduler(context.Background(), r, zap.NewNop())
	s.RunNow()
	assert.Equal(t, int32(1), atomic.LoadInt32(&r.n))
}

func TestRunNow_SkipsAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &countingRefresher{}
	s := NewScheduler(ctx, r, zap.NewNop())
	s.RunNow()
	assert.Zero(t, atomic.LoadInt32(&r.n))
}
