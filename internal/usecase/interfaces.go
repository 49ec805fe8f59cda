package usecase

import (
	"context"

	"github.com/xavierca1/unic-leads/internal/entity"
)

type SubmissionStore interface {
	Create(ctx context.Context, s entity.Submission) (*entity.StoredSubmission, error)
}

// RelayNotifier reports whether the relay accepted the message. It must not
// return errors: failures are logged and reported as false.
type RelayNotifier interface {
	Notify(ctx context.Context, s entity.Submission) bool
}

type EventPublisher interface {
	PublishSubmission(ctx context.Context, s *entity.StoredSubmission) error
}

// SessionStorage is short-lived storage scoped to one browser session.
type SessionStorage interface {
	SetItem(key, value string)
	GetItem(key string) (string, bool)
	RemoveItem(key string)
}

type MessageSender interface {
	SendApplication(ctx context.Context, notice ApplicationNotice) error
}
