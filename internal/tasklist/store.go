package tasklist

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Journal records dispatched actions so the list can be rebuilt by replay.
type Journal interface {
	Append(a Action) error
}

// Listener is notified with the new list after each transition.
type Listener func(List)

// Store owns the current list and serializes dispatch: one action is fully
// applied before the next is considered. The zero-value list is the empty
// list, so a fresh store starts empty.
type Store struct {
	mu        sync.Mutex
	list      List
	journal   Journal
	listeners []Listener
}

func NewStore() *Store {
	return &Store{}
}

// UseJournal makes every subsequent dispatch append to j before the action is
// applied. A failed append leaves the list unchanged.
func (s *Store) UseJournal(j Journal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal = j
}

// Subscribe registers a listener. Listeners run after the transition commits,
// outside the store lock, in registration order.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Restore replays actions through the reducer to rebuild state, bypassing the
// journal. Used at boot with the journal's own contents.
func (s *Store) Restore(actions []Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range actions {
		s.list = Reduce(s.list, a)
	}
}

// List returns the current list. Callers must not modify it; the reducer's
// copy-on-write discipline makes that safe to rely on.
func (s *Store) List() List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list
}

// Dispatch stamps, journals, and applies one action. It returns the new list
// and the change in length (+1 for add, -n for deletes, 0 for no-ops). The
// only error source is the journal; the transition itself cannot fail.
func (s *Store) Dispatch(a Action) (List, int, error) {
	s.mu.Lock()
	a = stamp(a)
	if s.journal != nil {
		if err := s.journal.Append(a); err != nil {
			s.mu.Unlock()
			return nil, 0, err
		}
	}
	prev := s.list
	next := Reduce(prev, a)
	s.list = next

	notify := make([]Listener, len(s.listeners))
	copy(notify, s.listeners)
	s.mu.Unlock()

	for _, fn := range notify {
		fn(next)
	}
	return next, len(next) - len(prev), nil
}

// stamp fills in host-assigned task metadata so Reduce stays pure and replay
// stays deterministic: a pre-assigned ID or timestamp is kept as-is.
func stamp(a Action) Action {
	if a.Kind != KindAdd {
		return a
	}
	if a.Task.ID == "" {
		a.Task.ID = uuid.NewString()
	}
	if a.Task.CreatedAt.IsZero() {
		a.Task.CreatedAt = time.Now().UTC()
	}
	return a
}
