package usecase

import (
	"context"
	"fmt"
	"time"
)

const MissingFieldsMessage = "Missing required fields: fullName, birthDate, and phone"

// ForwardApplicationUseCase is the server side of the relay: it turns a
// submitted lead into a message on the recruiters' channel.
type ForwardApplicationUseCase struct {
	Sender MessageSender
	Now    func() time.Time
}

func NewForwardApplicationUseCase(sender MessageSender) *ForwardApplicationUseCase {
	return &ForwardApplicationUseCase{Sender: sender, Now: time.Now}
}

func (uc *ForwardApplicationUseCase) Execute(ctx context.Context, input ForwardApplicationInput) error {
	if input.FullName == "" || input.BirthDate == "" || input.Phone == "" {
		return &DomainError{Code: "MISSING_FIELDS", Message: MissingFieldsMessage}
	}

	if uc.Sender == nil {
		return ErrRelayNotConfigured
	}

	notice := ApplicationNotice{
		FullName:   input.FullName,
		BirthDate:  input.BirthDate,
		Phone:      input.Phone,
		ReceivedAt: uc.Now(),
	}
	if err := uc.Sender.SendApplication(ctx, notice); err != nil {
		return fmt.Errorf("failed to send application to channel: %w", err)
	}
	return nil
}
