package querystate

import "sync"

// Store holds the current State for long-lived UIs and notifies subscribers
// after every change.
type Store struct {
	mu     sync.Mutex
	state  State
	nextID int
	subs   map[int]func(State)
}

func NewStore(initial State) *Store {
	return &Store{state: initial, subs: make(map[int]func(State))}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update applies fn to the current state. Subscribers are called outside the
// lock, only when the state actually changed.
func (s *Store) Update(fn func(State) State) State {
	s.mu.Lock()
	prev := s.state
	next := fn(prev)
	s.state = next
	subs := make([]func(State), 0, len(s.subs))
	if !next.Equal(prev) {
		for _, f := range s.subs {
			subs = append(subs, f)
		}
	}
	s.mu.Unlock()

	for _, f := range subs {
		f(next)
	}
	return next
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
