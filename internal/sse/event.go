package sse

type Event struct {
	Name string `json:"name"`
	Data any    `json:"data"`
}

const (
	SessionCreated = "session.created"
	TodoCreated    = "todo.created"
)
