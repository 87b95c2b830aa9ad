package terminal

import (
	"sync"
)

// Level classifies a recorded message
type Level string

const (
	LevelInfo  Level = "info"
	LevelOK    Level = "ok"
	LevelError Level = "error"
)

// Message is one recorded progress message
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Recorder keeps progress messages in memory instead of printing them.
// It is used where the terminal is not available, such as the MCP server.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// Info records an info message
func (r *Recorder) Info(msg string) { r.add(LevelInfo, msg) }

// OK records a success message
func (r *Recorder) OK(msg string) { r.add(LevelOK, msg) }

// Error records a failure
func (r *Recorder) Error(err error) { r.add(LevelError, err.Error()) }

// Messages returns a copy of everything recorded so far
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

func (r *Recorder) add(level Level, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Level: level, Text: text})
}
