package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/unic-leads/internal/entity"
	"github.com/xavierca1/unic-leads/internal/logger"
)

type fakePublisher struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (f *fakePublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func stored() *entity.StoredSubmission {
	return entity.NewStoredSubmission(entity.Submission{
		FullName:  "Иван Петров",
		BirthDate: "01.01.2000",
		Phone:     "+375291234567",
		Source:    "hero_form",
	}, "lead-42", time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC), entity.ClientMeta{UserAgent: "ua"})
}

func TestPublishSubmission(t *testing.T) {
	pub := &fakePublisher{}
	p := NewProducer(pub)

	require.NoError(t, p.PublishSubmission(context.Background(), stored()))

	assert.Equal(t, ExchangeName, pub.exchange)
	assert.Equal(t, RoutingKey, pub.key)
	assert.Equal(t, "application/json", pub.msg.ContentType)
	assert.Equal(t, "lead-42", pub.msg.MessageId)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)

	var got SubmissionCreatedPayload
	require.NoError(t, json.Unmarshal(pub.msg.Body, &got))
	assert.Equal(t, "lead-42", got.ID)
	assert.Equal(t, "new", got.Status)
	assert.Equal(t, "direct", got.Referrer)
	assert.Equal(t, "hero_form", got.Source)
	assert.Empty(t, got.Telegram)
}

func TestPublishSubmissionError(t *testing.T) {
	p := NewProducer(&fakePublisher{err: amqp.ErrClosed})
	err := p.PublishSubmission(context.Background(), stored())
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

type fakeTopology struct {
	exchanges []string
	queues    map[string]amqp.Table
	bindings  []string
}

func (f *fakeTopology) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.exchanges = append(f.exchanges, name)
	return nil
}

func (f *fakeTopology) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	f.queues[name] = args
	return amqp.Queue{Name: name}, nil
}

func (f *fakeTopology) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	f.bindings = append(f.bindings, exchange+"->"+name+":"+key)
	return nil
}

func TestSetupTopology(t *testing.T) {
	top := &fakeTopology{queues: map[string]amqp.Table{}}

	require.NoError(t, setupTopology(top))

	assert.ElementsMatch(t, []string{DLXName, ExchangeName}, top.exchanges)
	assert.Equal(t, DLXName, top.queues[QueueName]["x-dead-letter-exchange"])
	assert.Contains(t, top.bindings, ExchangeName+"->"+QueueName+":"+RoutingKey)
	assert.Contains(t, top.bindings, DLXName+"->"+DLQName+":"+RoutingKey)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendApplicationNotice(ctx context.Context, p SubmissionCreatedPayload) error {
	return m.Called(ctx, p).Error(0)
}

type ackRecorder struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *ackRecorder) Ack(tag uint64, multiple bool) error { a.acked = true; return nil }
func (a *ackRecorder) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}
func (a *ackRecorder) Reject(tag uint64, requeue bool) error { return nil }

func delivery(t *testing.T, body []byte, redelivered bool) (amqp.Delivery, *ackRecorder) {
	t.Helper()
	rec := &ackRecorder{}
	return amqp.Delivery{Acknowledger: rec, DeliveryTag: 1, Body: body, Redelivered: redelivered}, rec
}

func TestWorkerHandle(t *testing.T) {
	body, err := json.Marshal(PayloadFor(stored()))
	require.NoError(t, err)

	t.Run("acks on success", func(t *testing.T) {
		n := new(MockNotifier)
		n.On("SendApplicationNotice", mock.Anything, mock.MatchedBy(func(p SubmissionCreatedPayload) bool {
			return p.ID == "lead-42"
		})).Return(nil)

		d, rec := delivery(t, body, false)
		NewWorker(nil, n, logger.Discard()).handle(context.Background(), d)

		assert.True(t, rec.acked)
		n.AssertExpectations(t)
	})

	t.Run("requeues first failure", func(t *testing.T) {
		n := new(MockNotifier)
		n.On("SendApplicationNotice", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		d, rec := delivery(t, body, false)
		NewWorker(nil, n, logger.Discard()).handle(context.Background(), d)

		assert.True(t, rec.nacked)
		assert.True(t, rec.requeue)
	})

	t.Run("dead-letters repeated failure", func(t *testing.T) {
		n := new(MockNotifier)
		n.On("SendApplicationNotice", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		d, rec := delivery(t, body, true)
		NewWorker(nil, n, logger.Discard()).handle(context.Background(), d)

		assert.True(t, rec.nacked)
		assert.False(t, rec.requeue)
	})

	t.Run("dead-letters malformed body", func(t *testing.T) {
		n := new(MockNotifier)

		d, rec := delivery(t, []byte("{"), false)
		NewWorker(nil, n, logger.Discard()).handle(context.Background(), d)

		assert.True(t, rec.nacked)
		assert.False(t, rec.requeue)
		n.AssertNotCalled(t, "SendApplicationNotice", mock.Anything, mock.Anything)
	})
}

type fakeConsumer struct {
	msgs chan amqp.Delivery
}

func (f *fakeConsumer) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	return f.msgs, nil
}

func TestWorkerStartStopsOnContext(t *testing.T) {
	body, _ := json.Marshal(PayloadFor(stored()))
	called := make(chan struct{}, 1)
	n := new(MockNotifier)
	n.On("SendApplicationNotice", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { called <- struct{}{} }).
		Return(nil)

	c := &fakeConsumer{msgs: make(chan amqp.Delivery, 1)}
	d, rec := delivery(t, body, false)
	c.msgs <- d

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewWorker(c, n, logger.Discard()).Start(ctx, QueueName) }()

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("notifier was not called")
	}
	cancel()
	assert.NoError(t, <-done)
	assert.True(t, rec.acked)
}

func TestWorkerStartChannelClosed(t *testing.T) {
	c := &fakeConsumer{msgs: make(chan amqp.Delivery)}
	close(c.msgs)

	err := NewWorker(c, new(MockNotifier), logger.Discard()).Start(context.Background(), QueueName)
	assert.Error(t, err)
}
