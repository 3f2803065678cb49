package port

import (
	"context"

	"github.com/hrsuite/requisition-flow/internal/domain/event"
)

// Mailer delivers a composed message to a set of addresses
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// NoticePublisher hands committed transition notices to the notification
// pipeline. Publish must not block the action handler; implementations queue.
type NoticePublisher interface {
	Publish(notice *event.TransitionNotice)
}
