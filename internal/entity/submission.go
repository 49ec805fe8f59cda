package entity

import (
	"context"
	"time"
)

type SubmissionStatus string

const (
	StatusNew       SubmissionStatus = "new"
	StatusContacted SubmissionStatus = "contacted"
	StatusHired     SubmissionStatus = "hired"
	StatusRejected  SubmissionStatus = "rejected"
)

// DirectReferrer is stored when the page was opened without a referrer.
const DirectReferrer = "direct"

// Submission is one candidate's lead. Built by the validation layer and
// passed by value afterwards.
type Submission struct {
	FullName  string `json:"fullName"`
	BirthDate string `json:"birthDate"` // DD.MM.YYYY
	Phone     string `json:"phone"`     // +375XXXXXXXXX
	Telegram  string `json:"telegram,omitempty"`
	Source    string `json:"source"`
}

// StoredSubmission is what the primary store returns after a write.
type StoredSubmission struct {
	Submission

	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"createdAt"`
	Status    SubmissionStatus `json:"status"`
	UserAgent string           `json:"userAgent"`
	Referrer  string           `json:"referrer"`
}

// NewStoredSubmission attaches the store-assigned fields. Status is always new.
func NewStoredSubmission(s Submission, id string, createdAt time.Time, meta ClientMeta) *StoredSubmission {
	meta = meta.WithFallbacks()
	return &StoredSubmission{
		Submission: s,
		ID:         id,
		CreatedAt:  createdAt,
		Status:     StatusNew,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}
}

// ClientMeta is best-effort information about the browser that sent the form.
type ClientMeta struct {
	UserAgent string
	Referrer  string
}

func (m ClientMeta) WithFallbacks() ClientMeta {
	if m.Referrer == "" {
		m.Referrer = DirectReferrer
	}
	return m
}

type clientMetaKey struct{}

func WithClientMeta(ctx context.Context, meta ClientMeta) context.Context {
	return context.WithValue(ctx, clientMetaKey{}, meta)
}

// ClientMetaFrom returns the metadata attached to ctx, with fallbacks applied.
func ClientMetaFrom(ctx context.Context) ClientMeta {
	meta, _ := ctx.Value(clientMetaKey{}).(ClientMeta)
	return meta.WithFallbacks()
}
