package executor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/VoxDroid/rpkgs/internal/log"
	"github.com/VoxDroid/rpkgs/internal/sanitize"
)

// closeGrace is how long Close waits for the interpreter to exit after its
// stdin is closed before killing it.
const closeGrace = 2 * time.Second

type pending struct {
	exec *Execution
	mode Mode
}

// Session is a running interpreter. All submissions share its global
// environment, so state such as options() or attached packages persists
// between them.
type Session struct {
	ID      string
	Runtime RuntimeInfo

	console io.Writer
	kill    func() error

	writeMu sync.Mutex
	stdin   io.WriteCloser

	mu      sync.Mutex
	pending map[string]*pending
	current *pending
	closed  bool

	seq  atomic.Uint64
	done chan struct{}
}

// newSession wires a session over the interpreter's stdin and combined
// output. One goroutine reads output until EOF.
func newSession(id string, rt RuntimeInfo, stdin io.WriteCloser, output io.Reader, console io.Writer) *Session {
	if console == nil {
		console = io.Discard
	}
	s := &Session{
		ID:      id,
		Runtime: rt,
		console: console,
		stdin:   stdin,
		pending: make(map[string]*pending),
		done:    make(chan struct{}),
	}
	go s.consume(output)
	return s
}

// Info returns the session description.
func (s *Session) Info() SessionInfo {
	return SessionInfo{ID: s.ID, RuntimeMetadata: s.Runtime}
}

// Done is closed when the interpreter's output ends.
func (s *Session) Done() <-chan struct{} { return s.done }

// Alive reports whether the session still accepts submissions.
func (s *Session) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Submit hands code to the interpreter. It returns once the code has been
// written; the returned execution completes when the interpreter reports.
func (s *Session) Submit(ctx context.Context, code string, mode Mode) (*Execution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := fmt.Sprintf("%s.%d", s.ID, s.seq.Add(1))
	p := &pending{exec: NewExecution(id), mode: mode}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	s.pending[id] = p
	s.mu.Unlock()

	log.Debug("session %s: submit %s (%s)", s.ID, id, mode)

	s.writeMu.Lock()
	_, err := io.WriteString(s.stdin, wrapR(id, code))
	s.writeMu.Unlock()
	if err != nil {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
		return nil, fmt.Errorf("write to interpreter: %w", err)
	}
	return p.exec, nil
}

func (s *Session) consume(r io.Reader) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		s.handleLine(sc.Text())
	}
	if err := sc.Err(); err != nil {
		log.Warn("session %s: read output: %v", s.ID, err)
	}

	s.mu.Lock()
	s.closed = true
	left := s.pending
	s.pending = map[string]*pending{}
	s.current = nil
	s.mu.Unlock()

	for _, p := range left {
		p.exec.Finish(ErrSessionClosed)
	}
	close(s.done)
	log.Debug("session %s: ended", s.ID)
}

func (s *Session) handleLine(line string) {
	before, m, ok := splitMarker(line)
	if !ok {
		s.output(line)
		return
	}
	if before != "" {
		s.output(before)
	}
	switch m.kind {
	case markBegin:
		s.mu.Lock()
		s.current = s.pending[m.id]
		s.mu.Unlock()
	case markOK:
		s.finish(m.id, nil)
	case markError:
		s.finish(m.id, Classify(m.message))
	}
}

// output routes one line. Lines outside any submission (startup banners,
// stray prints) go to the console.
func (s *Session) output(line string) {
	s.mu.Lock()
	cur := s.current
	s.mu.Unlock()
	if cur != nil && cur.mode == Silent {
		log.Debug("session %s: %s", s.ID, sanitize.StripANSI(line))
		return
	}
	fmt.Fprintln(s.console, strings.TrimRight(sanitize.ConsoleOutput(line), "\n"))
}

func (s *Session) finish(id string, err error) {
	s.mu.Lock()
	p, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
		if s.current == p {
			s.current = nil
		}
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	if err != nil {
		log.Debug("session %s: %s failed: %v", s.ID, id, err)
	}
	p.exec.Finish(err)
}

// Close ends the session by closing the interpreter's stdin, then kills the
// process if it has not exited within a short grace period.
func (s *Session) Close() error {
	s.writeMu.Lock()
	err := s.stdin.Close()
	s.writeMu.Unlock()

	select {
	case <-s.done:
	case <-time.After(closeGrace):
		if s.kill != nil {
			if kerr := s.kill(); kerr != nil && err == nil {
				err = kerr
			}
		}
		select {
		case <-s.done:
		case <-time.After(closeGrace):
			log.Warn("session %s: interpreter did not exit", s.ID)
		}
	}
	return err
}
