package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/VoxDroid/rpkgs/internal/eventbus"
	"github.com/VoxDroid/rpkgs/internal/log"
)

// DefaultCommand starts R without a save prompt, without echoing input and
// without the startup banner.
const DefaultCommand = "R --no-save --no-restore --quiet --no-echo"

// DefaultStartupTimeout bounds how long a new session may take to run its
// init code.
const DefaultStartupTimeout = time.Minute

// Config controls how the host runs interpreters.
type Config struct {
	// Command is the interpreter command line. It is split with shell
	// quoting rules; the first word is resolved on PATH.
	Command string
	// Repos, when set, becomes the session's CRAN mirror.
	Repos string
	// Console receives the output of Interactive submissions.
	Console io.Writer
	// StartupTimeout bounds StartSession. Zero means DefaultStartupTimeout.
	StartupTimeout time.Duration
}

type process struct {
	stdin  io.WriteCloser
	output io.ReadCloser
	kill   func() error
	wait   func() error
}

// Host owns the registered runtimes and running sessions. It implements
// Runtime and Events.
type Host struct {
	cfg      Config
	lookPath func(string) (string, error)
	start    func(argv []string) (*process, error)

	mu         sync.Mutex
	runtimes   []RuntimeInfo
	sessions   []*Session
	foreground string
	nextID     int

	foregroundBus *eventbus.Bus[string]
	registerBus   *eventbus.Bus[RuntimeInfo]
	focusBus      *eventbus.Bus[string]
}

var (
	_ Runtime = (*Host)(nil)
	_ Events  = (*Host)(nil)
)

// NewHost returns a host with no registered runtimes. Call Discover to
// register the configured interpreter.
func NewHost(cfg Config) *Host {
	if strings.TrimSpace(cfg.Command) == "" {
		cfg.Command = DefaultCommand
	}
	if cfg.StartupTimeout <= 0 {
		cfg.StartupTimeout = DefaultStartupTimeout
	}
	return &Host{
		cfg:           cfg,
		lookPath:      exec.LookPath,
		start:         startProcess,
		foregroundBus: eventbus.New[string](),
		registerBus:   eventbus.New[RuntimeInfo](),
		focusBus:      eventbus.New[string](),
	}
}

func (h *Host) argv() ([]string, error) {
	argv, err := shellquote.Split(h.cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("parse interpreter command %q: %w", h.cfg.Command, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty interpreter command")
	}
	return argv, nil
}

// Discover resolves the configured interpreter and registers it. A newly
// registered runtime is announced through OnDidRegisterRuntime.
func (h *Host) Discover(ctx context.Context) (RuntimeInfo, error) {
	if err := ctx.Err(); err != nil {
		return RuntimeInfo{}, err
	}
	argv, err := h.argv()
	if err != nil {
		return RuntimeInfo{}, err
	}
	path, err := h.lookPath(argv[0])
	if err != nil {
		return RuntimeInfo{}, fmt.Errorf("%w: %s not found: %v", ErrRuntimeUnavailable, argv[0], err)
	}
	rt := RuntimeInfo{LanguageID: LanguageR, Name: "R (" + filepath.Base(path) + ")", Path: path}

	h.mu.Lock()
	for _, r := range h.runtimes {
		if r.LanguageID == rt.LanguageID && r.Path == rt.Path {
			h.mu.Unlock()
			return r, nil
		}
	}
	h.runtimes = append(h.runtimes, rt)
	h.mu.Unlock()

	log.Debug("registered runtime %s at %s", rt.Name, rt.Path)
	h.registerBus.Publish(rt)
	return rt, nil
}

// RegisteredRuntimes lists the registered runtimes.
func (h *Host) RegisteredRuntimes(ctx context.Context) ([]RuntimeInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]RuntimeInfo(nil), h.runtimes...), nil
}

// ActiveSessions lists running sessions in start order.
func (h *Host) ActiveSessions(ctx context.Context) ([]SessionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]SessionInfo, 0, len(h.sessions))
	for _, s := range h.sessions {
		if s.Alive() {
			out = append(out, s.Info())
		}
	}
	return out, nil
}

func (h *Host) runtimeFor(lang string) (RuntimeInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.runtimes {
		if r.LanguageID == lang {
			return r, true
		}
	}
	return RuntimeInfo{}, false
}

// StartSession starts an interpreter for lang and makes it the foreground
// session. It returns once the interpreter has run the init code, so callers
// can submit work with the interpreter ready. An interpreter that exits or
// does not answer within the startup timeout is an error.
func (h *Host) StartSession(ctx context.Context, lang string) (*Session, error) {
	if lang == "" {
		lang = LanguageR
	}
	rt, ok := h.runtimeFor(lang)
	if !ok {
		return nil, ErrRuntimeUnavailable
	}
	argv, err := h.argv()
	if err != nil {
		return nil, err
	}
	argv[0] = rt.Path
	proc, err := h.start(argv)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", rt.Name, err)
	}

	h.mu.Lock()
	h.nextID++
	id := fmt.Sprintf("%s-%d", lang, h.nextID)
	sess := newSession(id, rt, proc.stdin, proc.output, h.cfg.Console)
	sess.kill = proc.kill
	h.sessions = append(h.sessions, sess)
	h.foreground = id
	h.mu.Unlock()

	go h.reap(sess, proc)
	log.Info("started %s session %s", rt.Name, id)

	if err := h.initSession(ctx, sess); err != nil {
		if !isInterpreterError(err) {
			_ = sess.Close()
			return nil, fmt.Errorf("start %s: %w", rt.Name, err)
		}
		// the session is usable; only an option failed to apply
		log.Warn("session %s: init: %v", id, err)
	}
	h.foregroundBus.Publish(id)
	return sess, nil
}

func (h *Host) initSession(ctx context.Context, sess *Session) error {
	ctx, cancel := context.WithTimeout(ctx, h.cfg.StartupTimeout)
	defer cancel()
	ex, err := sess.Submit(ctx, h.initCode(), Silent)
	if err != nil {
		return err
	}
	if err := ex.Wait(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("interpreter did not answer within %s: %w", h.cfg.StartupTimeout, err)
		}
		return err
	}
	return nil
}

// isInterpreterError reports whether err was raised by code the interpreter
// ran, as opposed to the interpreter being unreachable.
func isInterpreterError(err error) bool {
	var execErr *ExecutionError
	var missing *MissingDependencyError
	return errors.As(err, &execErr) || errors.As(err, &missing)
}

// initCode prepares a fresh session: help pages print instead of opening a
// pager, menus stay textual, and the configured CRAN mirror is selected.
func (h *Host) initCode() string {
	lines := []string{`options(pager = "cat", menu.graphics = FALSE)`}
	if repo := strings.TrimSpace(h.cfg.Repos); repo != "" {
		lines = append(lines, fmt.Sprintf("options(repos = c(CRAN = %s))", QuoteR(repo)))
	}
	return strings.Join(lines, "\n")
}

// reap waits for a session to end and drops it from the host.
func (h *Host) reap(sess *Session, proc *process) {
	<-sess.Done()
	_ = proc.output.Close()
	if proc.wait != nil {
		if err := proc.wait(); err != nil {
			log.Debug("session %s: interpreter exited: %v", sess.ID, err)
		}
	}

	h.mu.Lock()
	for i, s := range h.sessions {
		if s == sess {
			h.sessions = append(h.sessions[:i], h.sessions[i+1:]...)
			break
		}
	}
	changed := h.foreground == sess.ID
	if changed {
		h.foreground = ""
		if n := len(h.sessions); n > 0 {
			h.foreground = h.sessions[n-1].ID
		}
	}
	next := h.foreground
	h.mu.Unlock()

	if changed {
		h.foregroundBus.Publish(next)
	}
}

// Foreground returns the foreground session, or nil.
func (h *Host) Foreground() *Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.sessions {
		if s.ID == h.foreground {
			return s
		}
	}
	return nil
}

// Execute submits code to the foreground session of the requested language.
func (h *Host) Execute(ctx context.Context, req Request) (*Execution, error) {
	lang := req.Language
	if lang == "" {
		lang = LanguageR
	}
	if _, ok := h.runtimeFor(lang); !ok {
		return nil, ErrRuntimeUnavailable
	}
	sess := h.Foreground()
	if sess == nil || sess.Runtime.LanguageID != lang || !sess.Alive() {
		return nil, ErrNoActiveSession
	}
	if req.FocusConsole {
		h.focusBus.Publish(sess.ID)
	}
	return sess.Submit(ctx, req.Code, req.Mode)
}

// OnDidChangeForegroundSession subscribes to foreground changes. The id is
// empty when the last session ended.
func (h *Host) OnDidChangeForegroundSession(fn func(sessionID string)) func() {
	return h.foregroundBus.Subscribe(fn)
}

// OnDidRegisterRuntime subscribes to runtime registrations.
func (h *Host) OnDidRegisterRuntime(fn func(rt RuntimeInfo)) func() {
	return h.registerBus.Subscribe(fn)
}

// OnDidFocusConsole subscribes to console focus requests.
func (h *Host) OnDidFocusConsole(fn func(sessionID string)) func() {
	return h.focusBus.Subscribe(fn)
}

// Close stops every session.
func (h *Host) Close() error {
	h.mu.Lock()
	sessions := append([]*Session(nil), h.sessions...)
	h.mu.Unlock()
	var errs []error
	for _, s := range sessions {
		if err := s.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, fmt.Errorf("close session %s: %w", s.ID, err))
		}
	}
	return errors.Join(errs...)
}

// startProcess runs argv with stdout and stderr joined on one pipe so error
// text and status markers arrive in order.
func startProcess(argv []string) (*process, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	cmd.Stdout = pw
	cmd.Stderr = pw
	stdin, err := cmd.StdinPipe()
	if err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return nil, err
	}
	// the child holds its own copy of the write end
	_ = pw.Close()
	return &process{
		stdin:  stdin,
		output: pr,
		kill:   func() error { return cmd.Process.Kill() },
		wait:   cmd.Wait,
	}, nil
}
