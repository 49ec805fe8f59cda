package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/xavierca1/unic-leads/internal/usecase"
)

// FormFactory builds the form instance for one (session, source) pair.
type FormFactory func(source string, storage usecase.SessionStorage) *usecase.ApplicationForm

// FormRegistry keeps one ApplicationForm per browser session and form
// source. Forms idle longer than ttl are detached and dropped.
type FormRegistry struct {
	mu      sync.Mutex
	forms   map[string]*formEntry
	factory FormFactory
	ttl     time.Duration
	now     func() time.Time
}

type formEntry struct {
	form     *usecase.ApplicationForm
	lastSeen time.Time
}

func NewFormRegistry(factory FormFactory, ttl time.Duration) *FormRegistry {
	return &FormRegistry{
		forms:   make(map[string]*formEntry),
		factory: factory,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the form for sid/source, creating it on first use.
func (fr *FormRegistry) Get(sid, source string, storage usecase.SessionStorage) *usecase.ApplicationForm {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	key := sid + "|" + source
	e, ok := fr.forms[key]
	if !ok {
		e = &formEntry{form: fr.factory(source, storage)}
		fr.forms[key] = e
	}
	e.lastSeen = fr.now()
	return e.form
}

func (fr *FormRegistry) Len() int {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return len(fr.forms)
}

func (fr *FormRegistry) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fr.Sweep()
			}
		}
	}()
}

// Sweep detaches and removes idle forms. A form still submitting is kept
// until its pipeline settles.
func (fr *FormRegistry) Sweep() {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	now := fr.now()
	for key, e := range fr.forms {
		if now.Sub(e.lastSeen) <= fr.ttl {
			continue
		}
		if _, busy := e.form.State().(usecase.Submitting); busy {
			continue
		}
		e.form.Detach()
		delete(fr.forms, key)
	}
}
