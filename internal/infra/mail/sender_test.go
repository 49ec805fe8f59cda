package mail

import (
	"context"
	"errors"
	"mime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/unic-leads/internal/infra/queue"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func payload() queue.SubmissionCreatedPayload {
	return queue.SubmissionCreatedPayload{
		ID:        "lead-42",
		FullName:  "Иван <Петров>",
		BirthDate: "01.01.2000",
		Phone:     "+375291234567",
		Telegram:  "@ivan",
		Source:    "main_form",
		Referrer:  "direct",
		CreatedAt: time.Date(2025, 2, 3, 9, 0, 0, 0, time.UTC),
	}
}

func newTestSender(d *fakeDialer) *EmailSender {
	s := NewEmailSender("smtp.local", 587, "u", "p", "noreply@unic.by", "hr@unic.by", time.FixedZone("MSK", 3*3600))
	s.dialer = d
	return s
}

func TestSendApplicationNotice(t *testing.T) {
	d := &fakeDialer{}
	s := newTestSender(d)

	require.NoError(t, s.SendApplicationNotice(context.Background(), payload()))
	require.Len(t, d.sent, 1)

	m := d.sent[0]
	assert.Equal(t, []string{"noreply@unic.by"}, m.GetHeader("From"))
	assert.Equal(t, []string{"hr@unic.by"}, m.GetHeader("To"))

	subject := m.GetHeader("Subject")
	require.Len(t, subject, 1)
	decoded, err := new(mime.WordDecoder).DecodeHeader(subject[0])
	require.NoError(t, err)
	assert.Equal(t, "Новая заявка: Иван <Петров>", decoded)
}

func TestRenderBody(t *testing.T) {
	s := newTestSender(&fakeDialer{})

	out, err := s.renderBody(payload())
	require.NoError(t, err)
	assert.Contains(t, out, "03.02.2025 12:00")
	assert.Contains(t, out, "@ivan")
	assert.Contains(t, out, "Иван &lt;Петров&gt;")
	assert.Contains(t, out, "ID: lead-42")

	p := payload()
	p.Telegram = ""
	out, err = s.renderBody(p)
	require.NoError(t, err)
	assert.NotContains(t, out, "Telegram")
}

func TestSendApplicationNoticeSMTPError(t *testing.T) {
	d := &fakeDialer{err: errors.New("connection refused")}

	err := newTestSender(d).SendApplicationNotice(context.Background(), payload())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSendApplicationNoticeCancelled(t *testing.T) {
	d := &fakeDialer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, newTestSender(d).SendApplicationNotice(ctx, payload()), context.Canceled)
	assert.Empty(t, d.sent)
}
