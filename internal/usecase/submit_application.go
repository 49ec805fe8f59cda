package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const defaultRelayTimeout = 10 * time.Second

// ApplicationForm drives one on-page form instance through the submission
// pipeline: validate, write to the primary store, notify the relay.
type ApplicationForm struct {
	source       string
	store        SubmissionStore
	relay        RelayNotifier
	events       EventPublisher
	session      SessionStorage
	logger       *slog.Logger
	relayTimeout time.Duration

	mu       sync.Mutex
	state    SubmissionState
	values   SubmitApplicationInput
	detached bool
}

type FormOption func(*ApplicationForm)

func WithEventPublisher(p EventPublisher) FormOption {
	return func(f *ApplicationForm) {
		f.events = p
	}
}

func WithLogger(l *slog.Logger) FormOption {
	return func(f *ApplicationForm) {
		if l != nil {
			f.logger = l
		}
	}
}

func WithRelayTimeout(d time.Duration) FormOption {
	return func(f *ApplicationForm) {
		if d > 0 {
			f.relayTimeout = d
		}
	}
}

func NewApplicationForm(
	source string,
	store SubmissionStore,
	relay RelayNotifier,
	session SessionStorage,
	opts ...FormOption,
) *ApplicationForm {
	f := &ApplicationForm{
		source:       source,
		store:        store,
		relay:        relay,
		session:      session,
		logger:       slog.Default(),
		relayTimeout: defaultRelayTimeout,
		state:        Idle{},
		values:       DefaultInput(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With("form", source)
	return f
}

func (f *ApplicationForm) Source() string {
	return f.source
}

func (f *ApplicationForm) State() SubmissionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Values returns the current form values.
func (f *ApplicationForm) Values() SubmitApplicationInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Validate runs the validation layer without touching the form state.
func (f *ApplicationForm) Validate(input SubmitApplicationInput) ValidationErrors {
	_, errs := ValidateSubmission(input)
	return errs
}

// Submit runs the whole pipeline. A call made while another submit is in
// flight returns ErrSubmissionInProgress and does nothing.
func (f *ApplicationForm) Submit(ctx context.Context, input SubmitApplicationInput) (*SubmitApplicationOutput, error) {
	f.mu.Lock()
	if f.detached {
		f.mu.Unlock()
		return nil, ErrFormDetached
	}
	if _, busy := f.state.(Submitting); busy {
		f.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	f.state = Submitting{}
	f.values = input
	f.mu.Unlock()

	if input.Source == "" {
		input.Source = f.source
	}

	submission, verrs := ValidateSubmission(input)
	if len(verrs) > 0 {
		if !f.settle(ctx, Failed{Message: ValidationFailedBanner, Fields: verrs}) {
			return nil, ErrFormDetached
		}
		return nil, verrs
	}

	stored, err := f.store.Create(ctx, submission)
	if err != nil {
		f.logger.Error("❌ primary store write failed", "error", err)
		if !f.settle(ctx, Failed{Message: PublicMessage(err)}) {
			return nil, ErrFormDetached
		}
		return nil, err
	}
	f.logger.Info("application stored", "id", stored.ID)

	// The lead is already saved: notify even if the client went away.
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.relayTimeout)
	defer cancel()

	delivered := f.relay.Notify(notifyCtx, submission)
	if !delivered {
		f.logger.Warn("⚠️ application stored but relay was not notified", "id", stored.ID)
	}

	if f.events != nil {
		if err := f.events.PublishSubmission(notifyCtx, stored); err != nil {
			f.logger.Warn("⚠️ submission event not published", "id", stored.ID, "error", err)
		}
	}

	out := &SubmitApplicationOutput{
		StorageID:      stored.ID,
		RelayDelivered: delivered,
		Redirect:       ThankYouPath,
	}
	if !f.settle(ctx, Succeeded{StorageID: stored.ID, RelayDelivered: delivered}) {
		return nil, ErrFormDetached
	}
	return out, nil
}

// settle moves the form out of Submitting. If the consumer is gone the
// result is dropped and the form returns to idle.
func (f *ApplicationForm) settle(ctx context.Context, next SubmissionState) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.detached || ctx.Err() != nil {
		f.state = Idle{}
		return false
	}

	f.state = next
	if _, ok := next.(Succeeded); ok {
		f.values = DefaultInput()
		f.session.SetItem(SessionFlagKey, "true")
	}
	return true
}

// Reset is the "submit another" action: success|error -> idle.
func (f *ApplicationForm) Reset() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state.(type) {
	case Succeeded, Failed:
		f.state = Idle{}
		return true
	default:
		return false
	}
}

// Detach marks the consumer as gone. Results of an in-flight submit are
// discarded.
func (f *ApplicationForm) Detach() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detached = true
}
