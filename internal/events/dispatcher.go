// Package events defines how the identity service hands notification work
// to downstream consumers. Dispatch is fire-and-forget from the caller's
// point of view: the credential flow that triggered a notification never
// fails because delivery did.
package events

import (
	"context"

	"github.com/AbrarZaved/EduTutor/internal/domain/models"
)

// NotificationDispatcher enqueues a notification job for asynchronous
// delivery. Implementations must be safe for concurrent use.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, job models.NotificationJob) error
}

// NopDispatcher discards every job. Used in tests and when no broker is
// configured.
type NopDispatcher struct{}

func (NopDispatcher) Dispatch(context.Context, models.NotificationJob) error { return nil }
