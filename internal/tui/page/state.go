package page

import (
	"sync"

	"github.com/google/uuid"
)

// PageState holds the agent chat page's selected model, its session id and
// the draft. Setters notify listeners synchronously in subscription order.
// Values are stored as given; an empty ModelID means no model was chosen.
type PageState struct {
	mu        sync.RWMutex
	modelID   string
	sessionID string
	content   string

	nextListener int
	listeners    []stateListener
}

type stateListener struct {
	id int
	fn func(*PageState)
}

// NewPageState returns a store with a fresh session id.
func NewPageState() *PageState {
	return &PageState{sessionID: uuid.New().String()}
}

func (s *PageState) ModelID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modelID
}

func (s *PageState) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

func (s *PageState) Content() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content
}

func (s *PageState) SetModelID(id string) {
	s.set(func() { s.modelID = id })
}

func (s *PageState) SetSessionID(id string) {
	s.set(func() { s.sessionID = id })
}

func (s *PageState) SetContent(content string) {
	s.set(func() { s.content = content })
}

// Subscribe registers fn and returns a function that removes it.
func (s *PageState) Subscribe(fn func(*PageState)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners = append(s.listeners, stateListener{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *PageState) set(apply func()) {
	s.mu.Lock()
	apply()
	listeners := make([]stateListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	// listeners may read the state back
	for _, l := range listeners {
		l.fn(s)
	}
}
