// Package executor hosts interpreter runtimes: it discovers registered
// interpreters, runs long-lived sessions as child processes and accepts code
// submissions in Interactive or Silent mode.
package executor

import "context"

// LanguageR is the language id of the R runtime.
const LanguageR = "r"

// RuntimeInfo describes a registered interpreter.
type RuntimeInfo struct {
	LanguageID string
	Name       string
	Path       string
}

// SessionInfo describes a running session.
type SessionInfo struct {
	ID              string
	RuntimeMetadata RuntimeInfo
}

// Runtime is the execution capability consumed by the refresh pipeline and
// the command handlers. It allows tests to inject fake implementations
// without running a real interpreter.
type Runtime interface {
	RegisteredRuntimes(ctx context.Context) ([]RuntimeInfo, error)
	ActiveSessions(ctx context.Context) ([]SessionInfo, error)
	Execute(ctx context.Context, req Request) (*Execution, error)
}

// Events exposes runtime lifecycle notifications. Each Subscribe-style
// method returns an unsubscribe func.
type Events interface {
	OnDidChangeForegroundSession(fn func(sessionID string)) func()
	OnDidRegisterRuntime(fn func(rt RuntimeInfo)) func()
}

// HasRuntime reports whether a runtime for lang is registered.
func HasRuntime(ctx context.Context, rt Runtime, lang string) (bool, error) {
	runtimes, err := rt.RegisteredRuntimes(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range runtimes {
		if r.LanguageID == lang {
			return true, nil
		}
	}
	return false, nil
}

// HasActiveSession reports whether a session for lang is running.
func HasActiveSession(ctx context.Context, rt Runtime, lang string) (bool, error) {
	sessions, err := rt.ActiveSessions(ctx)
	if err != nil {
		return false, err
	}
	for _, s := range sessions {
		if s.RuntimeMetadata.LanguageID == lang {
			return true, nil
		}
	}
	return false, nil
}
