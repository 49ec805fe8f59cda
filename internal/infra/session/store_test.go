package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/unic-leads/internal/usecase"
)

var _ usecase.SessionStorage = (*Scoped)(nil)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(ttl time.Duration) (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore(ttl)
	s.now = clock.now
	return s, clock
}

func TestScopedItems(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	a := s.Scope("a")
	b := s.Scope("b")

	a.SetItem(usecase.SessionFlagKey, "true")

	v, ok := a.GetItem(usecase.SessionFlagKey)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	_, ok = b.GetItem(usecase.SessionFlagKey)
	assert.False(t, ok, "sessions must not share values")

	a.RemoveItem(usecase.SessionFlagKey)
	_, ok = a.GetItem(usecase.SessionFlagKey)
	assert.False(t, ok)
}

func TestSessionExpiresAfterIdleTTL(t *testing.T) {
	s, clock := newTestStore(time.Minute)
	sc := s.Scope("a")
	sc.SetItem("k", "v")

	clock.advance(50 * time.Second)
	_, ok := sc.GetItem("k")
	assert.True(t, ok, "access inside the ttl keeps the session")

	clock.advance(50 * time.Second)
	_, ok = sc.GetItem("k")
	assert.True(t, ok, "ttl slides on access")

	clock.advance(61 * time.Second)
	_, ok = sc.GetItem("k")
	assert.False(t, ok)
}

func TestSweep(t *testing.T) {
	s, clock := newTestStore(time.Minute)
	s.Scope("old").SetItem("k", "v")
	clock.advance(2 * time.Minute)
	s.Scope("fresh").SetItem("k", "v")

	s.Sweep()

	assert.Equal(t, 1, s.Len())
	_, ok := s.Scope("fresh").GetItem("k")
	assert.True(t, ok)
}

func TestRemoveOnUnknownSession(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	s.Scope("ghost").RemoveItem("k")
	assert.Equal(t, 0, s.Len())
}

func TestNewIDIsUnique(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
}
