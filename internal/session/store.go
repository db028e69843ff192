package session

import (
	"sync"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/checkout"
)

// entry is one user's state. Every read or write goes through mu.
type entry struct {
	mu       sync.Mutex
	cart     *cart.Cart
	checkout *checkout.Session
	evicted  bool
}

// cartEditable reports whether lines may change. Once checkout has moved past
// the summary the priced cart is frozen.
func (e *entry) cartEditable() bool {
	return e.checkout == nil || e.checkout.Step() == checkout.StepSummary
}

func (e *entry) idle() bool {
	return e.checkout == nil && e.cart.IsEmpty()
}

// Store keys session state by session id. Entries are created by the first
// write and dropped once they hold neither cart lines nor a checkout.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// acquire returns the locked entry for id, creating it if needed. The caller
// must hand it back with release.
func (s *Store) acquire(id string) *entry {
	for {
		s.mu.Lock()
		e, ok := s.entries[id]
		if !ok {
			e = &entry{cart: cart.New(id)}
			s.entries[id] = e
		}
		s.mu.Unlock()

		e.mu.Lock()
		if !e.evicted {
			return e
		}
		// dropped while we waited for it
		e.mu.Unlock()
	}
}

// peek returns the locked entry for id without creating one. Unknown ids get
// a detached empty entry that is never stored.
func (s *Store) peek(id string) *entry {
	for {
		s.mu.Lock()
		e, ok := s.entries[id]
		s.mu.Unlock()

		if !ok {
			e = &entry{cart: cart.New(id)}
			e.mu.Lock()
			return e
		}
		e.mu.Lock()
		if !e.evicted {
			return e
		}
		e.mu.Unlock()
	}
}

// release unlocks e, removing it from the store first when it is idle.
func (s *Store) release(id string, e *entry) {
	if e.idle() {
		s.mu.Lock()
		if s.entries[id] == e {
			delete(s.entries, id)
		}
		s.mu.Unlock()
		e.evicted = true
	}
	e.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
