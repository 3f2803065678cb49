package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrsuite/requisition-flow/internal/domain/event"
)

type captureNotifier struct {
	mu       sync.Mutex
	notices  []*event.TransitionNotice
	received chan struct{}
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{received: make(chan struct{}, 16)}
}

func (c *captureNotifier) Notify(ctx context.Context, notice *event.TransitionNotice) error {
	c.mu.Lock()
	c.notices = append(c.notices, notice)
	c.mu.Unlock()
	c.received <- struct{}{}
	return nil
}

func (c *captureNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.notices)
}

func TestNotificationWorker_DeliversPublishedNotices(t *testing.T) {
	notifier := newCaptureNotifier()
	w := NewNotificationWorker(DefaultNotificationWorkerConfig(), notifier, zap.NewNop())

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	notice := event.NewTransitionNotice(event.TypeStateChanged, "REQ-1", "En selección", "En nómina")
	w.Publish(notice)

	select {
	case <-notifier.received:
	case <-time.After(2 * time.Second):
		t.Fatal("notice was not delivered")
	}

	assert.Equal(t, 1, notifier.count())
}

func TestNotificationWorker_PublishNeverBlocks(t *testing.T) {
	// Worker not started: the queue fills up and further publishes drop.
	w := NewNotificationWorker(NotificationWorkerConfig{QueueSize: 2}, newCaptureNotifier(), zap.NewNop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			w.Publish(event.NewTransitionNotice(event.TypeStateChanged, "REQ-1", "", "En nómina"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}

func TestNotificationWorker_StopWaitsForLoop(t *testing.T) {
	w := NewNotificationWorker(DefaultNotificationWorkerConfig(), newCaptureNotifier(), zap.NewNop())
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())
	// Second stop is a no-op.
	require.NoError(t, w.Stop())
}
