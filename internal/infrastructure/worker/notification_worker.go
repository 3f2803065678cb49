package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hrsuite/requisition-flow/internal/application/port"
	"github.com/hrsuite/requisition-flow/internal/application/service"
	"github.com/hrsuite/requisition-flow/internal/domain/event"
)

// NotificationWorkerConfig holds configuration for the notification worker
type NotificationWorkerConfig struct {
	QueueSize       int
	DeliveryTimeout time.Duration
}

// DefaultNotificationWorkerConfig returns default configuration
func DefaultNotificationWorkerConfig() NotificationWorkerConfig {
	return NotificationWorkerConfig{
		QueueSize:       256,
		DeliveryTimeout: 30 * time.Second,
	}
}

// NotificationWorker consumes transition notices published after committed
// state changes and hands them to the notification service. Publish never
// blocks the action path: when the queue is full the notice is dropped with a
// warning. Deliveries carry state; the store does, so a lost notification
// never loses workflow data.
type NotificationWorker struct {
	config   NotificationWorkerConfig
	notifier service.NotificationService
	logger   *zap.Logger

	queue chan *event.TransitionNotice

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(
	config NotificationWorkerConfig,
	notifier service.NotificationService,
	logger *zap.Logger,
) *NotificationWorker {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultNotificationWorkerConfig().QueueSize
	}
	if config.DeliveryTimeout <= 0 {
		config.DeliveryTimeout = DefaultNotificationWorkerConfig().DeliveryTimeout
	}
	return &NotificationWorker{
		config:   config,
		notifier: notifier,
		logger:   logger,
		queue:    make(chan *event.TransitionNotice, config.QueueSize),
	}
}

// Name implements Worker
func (w *NotificationWorker) Name() string {
	return "notification"
}

// Publish implements port.NoticePublisher
func (w *NotificationWorker) Publish(notice *event.TransitionNotice) {
	select {
	case w.queue <- notice:
	default:
		w.logger.Warn("Notification queue full, dropping notice",
			zap.String("requisition_id", notice.RequisitionID),
			zap.String("to_state", notice.ToState))
	}
}

// Start begins the consume loop
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.isRunning {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.isRunning = true

	go w.consume(runCtx)

	w.logger.Info("NotificationWorker started", zap.Int("queue_size", w.config.QueueSize))
	return nil
}

// Stop drains nothing; outstanding queued notices are abandoned with the run
// context.
func (w *NotificationWorker) Stop() error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = false
	cancel := w.cancel
	done := w.done
	w.mu.Unlock()

	cancel()
	<-done
	return nil
}

func (w *NotificationWorker) consume(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return
		case notice := <-w.queue:
			w.deliver(ctx, notice)
		}
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, notice *event.TransitionNotice) {
	deliveryCtx, cancel := context.WithTimeout(ctx, w.config.DeliveryTimeout)
	defer cancel()

	if err := w.notifier.Notify(deliveryCtx, notice); err != nil {
		w.logger.Error("Failed to deliver notice",
			zap.String("requisition_id", notice.RequisitionID),
			zap.String("type", string(notice.Type)),
			zap.Error(err))
	}
}

var _ port.NoticePublisher = (*NotificationWorker)(nil)
var _ Worker = (*NotificationWorker)(nil)
