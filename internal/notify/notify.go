// Package notify carries user-facing messages from the refresh pipeline and
// the command handlers to whichever front end is running (CLI or TUI).
package notify

import (
	"fmt"
	"sync"
)

// Notifier shows messages to the user. Offer presents a message with a
// single action; run is invoked only if the user accepts it.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Offer(msg, action string, run func())
}

// Level of a recorded message.
type Level string

// Message levels.
const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelOffer Level = "offer"
)

// Message is one notification captured by a Recorder.
type Message struct {
	Level  Level
	Text   string
	Action string
	Run    func()
}

func (m Message) String() string {
	if m.Action != "" {
		return fmt.Sprintf("[%s] %s (%s)", m.Level, m.Text, m.Action)
	}
	return fmt.Sprintf("[%s] %s", m.Level, m.Text)
}

// Recorder is a Notifier that keeps every message. The TUI drains it into
// its status line; tests inspect it.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
	// OnMessage, when set, is called after each message is stored.
	OnMessage func(Message)
}

func (r *Recorder) add(m Message) {
	r.mu.Lock()
	r.msgs = append(r.msgs, m)
	hook := r.OnMessage
	r.mu.Unlock()
	if hook != nil {
		hook(m)
	}
}

// Info records an informational message.
func (r *Recorder) Info(msg string) { r.add(Message{Level: LevelInfo, Text: msg}) }

// Warn records a warning.
func (r *Recorder) Warn(msg string) { r.add(Message{Level: LevelWarn, Text: msg}) }

// Error records an error.
func (r *Recorder) Error(msg string) { r.add(Message{Level: LevelError, Text: msg}) }

// Offer records an offered action without running it.
func (r *Recorder) Offer(msg, action string, run func()) {
	r.add(Message{Level: LevelOffer, Text: msg, Action: action, Run: run})
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.msgs...)
}

// Last returns the newest message and whether there is one.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		return Message{}, false
	}
	return r.msgs[len(r.msgs)-1], true
}

// Discard drops every message.
type Discard struct{}

func (Discard) Info(string) {}
func (Discard) Warn(string) {}
func (Discard) Error(string) {}
func (Discard) Offer(string, string, func()) {}
