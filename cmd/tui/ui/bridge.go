package ui

import (
	"bytes"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/VoxDroid/rpkgs/internal/notify"
)

// Bridge forwards store changes, console output and notifications from
// background goroutines into a running program. Sends never block the
// caller, which may be the program's own Update, and arrive in order.
type Bridge struct {
	mu    sync.Mutex
	queue []tea.Msg
	sink  func(tea.Msg)

	wake chan struct{}
	done chan struct{}
	once sync.Once
}

// NewBridge returns a bridge that queues until Attach.
func NewBridge() *Bridge {
	return &Bridge{wake: make(chan struct{}, 1), done: make(chan struct{})}
}

// Attach starts delivering to p.
func (b *Bridge) Attach(p *tea.Program) { b.attach(p.Send) }

func (b *Bridge) attach(sink func(tea.Msg)) {
	b.mu.Lock()
	b.sink = sink
	b.mu.Unlock()
	go b.pump()
	b.signal()
}

// Close stops delivery. Queued messages are dropped.
func (b *Bridge) Close() { b.once.Do(func() { close(b.done) }) }

// Send queues msg for the program.
func (b *Bridge) Send(msg tea.Msg) {
	b.mu.Lock()
	b.queue = append(b.queue, msg)
	b.mu.Unlock()
	b.signal()
}

func (b *Bridge) signal() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *Bridge) pump() {
	for {
		select {
		case <-b.done:
			return
		case <-b.wake:
		}
		for {
			b.mu.Lock()
			if len(b.queue) == 0 || b.sink == nil {
				b.mu.Unlock()
				break
			}
			msg := b.queue[0]
			b.queue = b.queue[1:]
			sink := b.sink
			b.mu.Unlock()
			sink(msg)
		}
	}
}

// StoreChanged is an OnDidChangeTreeData handler.
func (b *Bridge) StoreChanged() { b.Send(storeChangedMsg{}) }

// FocusConsole is an OnDidFocusConsole handler.
func (b *Bridge) FocusConsole(string) { b.Send(consoleFocusMsg{}) }

// Notifier delivers notifications as status line messages.
func (b *Bridge) Notifier() notify.Notifier {
	return &notify.Recorder{OnMessage: func(m notify.Message) { b.Send(noticeMsg(m)) }}
}

// Console returns a writer delivering console output line by line.
func (b *Bridge) Console() io.Writer { return &consoleWriter{send: b.Send} }

type consoleWriter struct {
	mu   sync.Mutex
	buf  []byte
	send func(tea.Msg)
}

func (w *consoleWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		line := string(bytes.TrimRight(w.buf[:i], "\r"))
		w.buf = w.buf[i+1:]
		w.send(consoleMsg(line))
	}
	return len(p), nil
}
