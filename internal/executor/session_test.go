package executor

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func newFakeSession(t *testing.T, f *fakeInterpreter, console io.Writer) *Session {
	t.Helper()
	p := startFake(f)
	s := newSession("r-1", RuntimeInfo{LanguageID: LanguageR, Name: "R"}, p.stdin, p.output, console)
	s.kill = p.kill
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestSessionInteractiveOutputReachesConsole(t *testing.T) {
	var console syncBuffer
	f := &fakeInterpreter{respond: func(code string) fakeReply {
		return fakeReply{output: []string{"[1] 2"}}
	}}
	s := newFakeSession(t, f, &console)

	ex, err := s.Submit(context.Background(), "1 + 1", Interactive)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := ex.Wait(waitCtx(t)); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !strings.Contains(console.String(), "[1] 2") {
		t.Fatalf("expected console output, got %q", console.String())
	}
	if got := f.submitted(); len(got) != 1 || got[0] != "1 + 1" {
		t.Fatalf("unexpected submitted code: %v", got)
	}
}

func TestSessionSilentKeepsConsoleClean(t *testing.T) {
	var console syncBuffer
	f := &fakeInterpreter{respond: func(code string) fakeReply {
		return fakeReply{output: []string{"secret"}}
	}}
	s := newFakeSession(t, f, &console)

	ex, err := s.Submit(context.Background(), "x <- 1", Silent)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := ex.Wait(waitCtx(t)); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if strings.Contains(console.String(), "secret") {
		t.Fatalf("silent output leaked to console: %q", console.String())
	}
}

func TestSessionErrorIsClassified(t *testing.T) {
	f := &fakeInterpreter{respond: func(code string) fakeReply {
		if strings.Contains(code, "jsonlite") {
			return fakeReply{err: "Error in loadNamespace(x): there is no package called 'jsonlite'"}
		}
		return fakeReply{err: "Error: \x1b[31mboom\x1b[0m"}
	}}
	s := newFakeSession(t, f, nil)

	ex, _ := s.Submit(context.Background(), "jsonlite::write_json(1, 'x')", Silent)
	var missing *MissingDependencyError
	if err := ex.Wait(waitCtx(t)); !errors.As(err, &missing) {
		t.Fatalf("expected MissingDependencyError, got %v", err)
	}
	if missing.Package != "jsonlite" {
		t.Fatalf("unexpected package %q", missing.Package)
	}

	ex, _ = s.Submit(context.Background(), "stop('boom')", Silent)
	var execErr *ExecutionError
	if err := ex.Wait(waitCtx(t)); !errors.As(err, &execErr) {
		t.Fatalf("expected ExecutionError, got %v", err)
	}
	if execErr.Message != "Error: boom" {
		t.Fatalf("expected ANSI-stripped message, got %q", execErr.Message)
	}
}

func TestSessionSubmissionsCompleteInOrder(t *testing.T) {
	f := &fakeInterpreter{}
	s := newFakeSession(t, f, nil)

	var execs []*Execution
	for _, code := range []string{"a <- 1", "b <- 2", "c <- 3"} {
		ex, err := s.Submit(context.Background(), code, Silent)
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		execs = append(execs, ex)
	}
	for i, ex := range execs {
		if err := ex.Wait(waitCtx(t)); err != nil {
			t.Fatalf("execution %d: %v", i, err)
		}
	}
	if execs[0].ID == execs[1].ID {
		t.Fatalf("expected unique execution ids")
	}
}

func TestSessionEndFailsPendingExecutions(t *testing.T) {
	f := &fakeInterpreter{respond: func(string) fakeReply { return fakeReply{hang: true} }}
	p := startFake(f)
	s := newSession("r-1", RuntimeInfo{LanguageID: LanguageR}, p.stdin, p.output, nil)
	s.kill = p.kill

	ex, err := s.Submit(context.Background(), "Sys.sleep(100)", Silent)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := ex.Wait(waitCtx(t)); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
	if s.Alive() {
		t.Fatalf("session should be closed")
	}
	if _, err := s.Submit(context.Background(), "1", Silent); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed after close, got %v", err)
	}
}

func TestSessionTextBeforeMarkerIsOutput(t *testing.T) {
	var console syncBuffer
	f := &fakeInterpreter{respond: func(string) fakeReply {
		return fakeReply{output: []string{"no newline<<rpkgs:ok:ignored>>"}}
	}}
	s := newFakeSession(t, f, &console)
	ex, _ := s.Submit(context.Background(), "cat('no newline')", Interactive)
	if err := ex.Wait(waitCtx(t)); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !strings.Contains(console.String(), "no newline") {
		t.Fatalf("expected prefix text on console, got %q", console.String())
	}
}
