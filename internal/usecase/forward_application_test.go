package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMessageSender struct {
	mock.Mock
}

func (m *MockMessageSender) SendApplication(ctx context.Context, notice ApplicationNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func TestForwardApplicationSendsNotice(t *testing.T) {
	sender := new(MockMessageSender)
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	sender.On("SendApplication", mock.Anything, ApplicationNotice{
		FullName:   "Ivan Petrov",
		BirthDate:  "01.01.2000",
		Phone:      "+375291234567",
		ReceivedAt: now,
	}).Return(nil).Once()

	uc := NewForwardApplicationUseCase(sender)
	uc.Now = func() time.Time { return now }

	err := uc.Execute(context.Background(), ForwardApplicationInput{
		FullName:  "Ivan Petrov",
		BirthDate: "01.01.2000",
		Phone:     "+375291234567",
	})

	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestForwardApplicationMissingFields(t *testing.T) {
	sender := new(MockMessageSender)
	uc := NewForwardApplicationUseCase(sender)

	inputs := []ForwardApplicationInput{
		{BirthDate: "01.01.2000", Phone: "+375291234567"},
		{FullName: "Ivan", Phone: "+375291234567"},
		{FullName: "Ivan", BirthDate: "01.01.2000"},
		{},
	}
	for _, in := range inputs {
		err := uc.Execute(context.Background(), in)
		assert.True(t, IsDomainError(err))
		assert.Equal(t, MissingFieldsMessage, err.Error())
	}
	sender.AssertNotCalled(t, "SendApplication", mock.Anything, mock.Anything)
}

func TestForwardApplicationWithoutSender(t *testing.T) {
	uc := NewForwardApplicationUseCase(nil)

	err := uc.Execute(context.Background(), ForwardApplicationInput{FullName: "Ivan", BirthDate: "01.01.2000", Phone: "+375291234567"})
	assert.ErrorIs(t, err, ErrRelayNotConfigured)

	// Missing fields are reported before configuration problems.
	err = uc.Execute(context.Background(), ForwardApplicationInput{})
	assert.True(t, IsDomainError(err))
}

func TestForwardApplicationSenderFailure(t *testing.T) {
	sender := new(MockMessageSender)
	sendErr := errors.New("Bad Request: chat not found")
	sender.On("SendApplication", mock.Anything, mock.Anything).Return(sendErr)

	uc := NewForwardApplicationUseCase(sender)
	err := uc.Execute(context.Background(), ForwardApplicationInput{FullName: "Ivan", BirthDate: "01.01.2000", Phone: "+375291234567"})

	assert.ErrorIs(t, err, sendErr)
	assert.False(t, IsDomainError(err))
}
