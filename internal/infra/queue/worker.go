package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ApplicationNotifier delivers a stored submission to the back office.
type ApplicationNotifier interface {
	SendApplicationNotice(ctx context.Context, payload SubmissionCreatedPayload) error
}

type consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  consumer
	Notifier ApplicationNotifier
	Logger   *slog.Logger
}

func NewWorker(ch consumer, notifier ApplicationNotifier, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{Channel: ch, Notifier: notifier, Logger: logger}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	w.Logger.Info("worker waiting for messages", "queue", queueName)
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var payload SubmissionCreatedPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		w.Logger.Error("❌ [WORKER] invalid JSON, dead-lettering", "error", err)
		d.Nack(false, false)
		return
	}

	w.Logger.Info("📥 [WORKER] submission received", "id", payload.ID, "source", payload.Source)

	if err := w.Notifier.SendApplicationNotice(ctx, payload); err != nil {
		// redelivered messages that fail again go to the DLQ
		requeue := !d.Redelivered
		w.Logger.Error("❌ [WORKER] notice failed", "id", payload.ID, "requeue", requeue, "error", err)
		d.Nack(false, requeue)
		return
	}

	w.Logger.Info("✅ [WORKER] notice sent", "id", payload.ID)
	d.Ack(false)
}
