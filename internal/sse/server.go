// Package sse pushes server-sent events to connected clients. Sessions are
// grouped by the authenticated user so that an event published for a user
// reaches every stream that user has open, and nobody else's.
package sse

import (
	"net/http"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

type Server struct {
	mux      sync.RWMutex
	sessions map[uint64]map[string]*Session
}

func New() *Server {
	return &Server{
		sessions: make(map[uint64]map[string]*Session),
	}
}

// Serve registers a session for userID and blocks streaming events to it
// until the client goes away.
func (s *Server) Serve(w http.ResponseWriter, r *http.Request, userID uint64) error {
	id, err := gonanoid.New()
	if err != nil {
		return err
	}

	session := newSession()

	s.mux.Lock()
	if _, ok := s.sessions[userID]; !ok {
		s.sessions[userID] = make(map[string]*Session)
	}
	s.sessions[userID][id] = session
	s.mux.Unlock()

	session.Send(&Event{
		Name: SessionCreated,
		Data: id,
	})

	session.listen(w, r)

	s.mux.Lock()
	delete(s.sessions[userID], id)
	if len(s.sessions[userID]) == 0 {
		delete(s.sessions, userID)
	}
	s.mux.Unlock()

	return nil
}

// Send delivers the event to every open session of userID.
func (s *Server) Send(userID uint64, event *Event) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	for _, session := range s.sessions[userID] {
		session.Send(event)
	}
}

// SessionCount reports how many streams userID currently has open.
func (s *Server) SessionCount(userID uint64) int {
	s.mux.RLock()
	defer s.mux.RUnlock()

	return len(s.sessions[userID])
}
