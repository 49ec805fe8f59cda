package entity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewStoredSubmissionAlwaysNew(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	s := Submission{FullName: "Ivan Petrov", BirthDate: "01.01.2000", Phone: "+375291234567", Source: "main_form"}

	stored := NewStoredSubmission(s, "abc123", now, ClientMeta{UserAgent: "Mozilla/5.0"})

	assert.Equal(t, "abc123", stored.ID)
	assert.Equal(t, StatusNew, stored.Status)
	assert.Equal(t, now, stored.CreatedAt)
	assert.Equal(t, "Mozilla/5.0", stored.UserAgent)
	assert.Equal(t, DirectReferrer, stored.Referrer)
	assert.Equal(t, s, stored.Submission)
}

func TestClientMetaFromContext(t *testing.T) {
	meta := ClientMetaFrom(context.Background())
	assert.Equal(t, "", meta.UserAgent)
	assert.Equal(t, "direct", meta.Referrer)

	ctx := WithClientMeta(context.Background(), ClientMeta{UserAgent: "curl/8", Referrer: "https://google.com"})
	meta = ClientMetaFrom(ctx)
	assert.Equal(t, "curl/8", meta.UserAgent)
	assert.Equal(t, "https://google.com", meta.Referrer)
}
