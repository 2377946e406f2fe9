package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func start(t *testing.T, p *Poller) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	return func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("poller did not stop")
		}
	}
}

func TestPoller_FetchesRepeatedlyWhenEnabled(t *testing.T) {
	var calls atomic.Int32
	p := New("test", 5*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	}, zap.NewNop())

	stop := start(t, p)
	defer stop()

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
}

func TestPoller_DisabledFetchesOnlyOnStart(t *testing.T) {
	var calls atomic.Int32
	p := New("test", 5*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	}, zap.NewNop())
	p.SetEnabled(false)

	stop := start(t, p)
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	stop()

	assert.Equal(t, int32(1), calls.Load())
}

func TestPoller_RefreshRunsWhileDisabled(t *testing.T) {
	var calls atomic.Int32
	p := New("test", time.Hour, func(context.Context) error {
		calls.Add(1)
		return nil
	}, zap.NewNop())
	p.SetEnabled(false)

	stop := start(t, p)
	defer stop()

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	p.Refresh()
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, time.Millisecond)
}

func TestPoller_KeepsGoingAfterFailure(t *testing.T) {
	var calls atomic.Int32
	p := New("test", 5*time.Millisecond, func(context.Context) error {
		if calls.Add(1) == 1 {
			return errors.New("backend down")
		}
		return nil
	}, zap.NewNop())

	stop := start(t, p)
	defer stop()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)
}

func TestPoller_ToggleBackOn(t *testing.T) {
	var calls atomic.Int32
	p := New("test", 5*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	}, zap.NewNop())
	p.SetEnabled(false)
	assert.False(t, p.Enabled())

	stop := start(t, p)
	defer stop()

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	p.SetEnabled(true)
	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
}

func TestPoller_ReenableRestartsInterval(t *testing.T) {
	var calls atomic.Int32
	interval := 200 * time.Millisecond
	p := New("test", interval, func(context.Context) error {
		calls.Add(1)
		return nil
	}, zap.NewNop())
	p.SetEnabled(false)

	stop := start(t, p)
	defer stop()

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	p.SetEnabled(true)

	// The old tick would have fired about 50ms from here.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}
