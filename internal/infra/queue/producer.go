package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/unic-leads/internal/entity"
)

// SubmissionCreatedPayload is the body of a submission.created event.
type SubmissionCreatedPayload struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	BirthDate string    `json:"birth_date"`
	Phone     string    `json:"phone"`
	Telegram  string    `json:"telegram,omitempty"`
	Source    string    `json:"source"`
	Status    string    `json:"status"`
	UserAgent string    `json:"user_agent"`
	Referrer  string    `json:"referrer"`
	CreatedAt time.Time `json:"created_at"`
}

func PayloadFor(s *entity.StoredSubmission) SubmissionCreatedPayload {
	return SubmissionCreatedPayload{
		ID:        s.ID,
		FullName:  s.FullName,
		BirthDate: s.BirthDate,
		Phone:     s.Phone,
		Telegram:  s.Telegram,
		Source:    s.Source,
		Status:    string(s.Status),
		UserAgent: s.UserAgent,
		Referrer:  s.Referrer,
		CreatedAt: s.CreatedAt,
	}
}

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitMQProducer publishes submission events. Safe for concurrent use.
type RabbitMQProducer struct {
	mu sync.Mutex
	Ch publisher
}

func NewProducer(ch publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishSubmission(ctx context.Context, s *entity.StoredSubmission) error {
	body, err := json.Marshal(PayloadFor(s))
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         RoutingKey,
			MessageId:    s.ID,
			Timestamp:    s.CreatedAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to RabbitMQ: %w", err)
	}
	return nil
}
