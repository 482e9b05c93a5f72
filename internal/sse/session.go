package sse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

type Session struct {
	messageChan chan string
	done        chan struct{}
}

func newSession() *Session {
	return &Session{
		messageChan: make(chan string, 16),
		done:        make(chan struct{}),
	}
}

func (s *Session) Send(e *Event) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	if err := enc.Encode(e); err != nil {
		log.Println(err)
		return
	}

	select {
	case s.messageChan <- buf.String():
	case <-s.done:
	default:
		// slow consumer, drop rather than block the publisher
	}
}

func (s *Session) listen(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	defer close(s.done)

	flusher, ok := w.(http.Flusher)

	for {
		select {

		case message := <-s.messageChan:
			fmt.Fprintf(w, "data: %s\n\n", message)
			if ok {
				flusher.Flush()
			}

		case <-r.Context().Done():
			return

		}
	}
}
