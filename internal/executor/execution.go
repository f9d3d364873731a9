package executor

import (
	"context"
	"sync"
)

// Mode selects how a submission interacts with the console.
type Mode int

const (
	// Interactive submissions stream their output to the console.
	Interactive Mode = iota
	// Silent submissions keep output off the console (debug log only).
	Silent
)

func (m Mode) String() string {
	if m == Silent {
		return "silent"
	}
	return "interactive"
}

// Request is a single code submission.
type Request struct {
	Language     string
	Code         string
	FocusConsole bool
	Mode         Mode
}

// Execution tracks one submission. Execute returns it as soon as the code
// has been handed to the interpreter; Done closes when the interpreter
// reports completion, and Err then holds the failure, if any.
type Execution struct {
	ID   string
	once sync.Once
	done chan struct{}
	err  error
}

// NewExecution returns a pending execution. Runtime implementations (and
// test fakes) complete it with Finish.
func NewExecution(id string) *Execution {
	return &Execution{ID: id, done: make(chan struct{})}
}

// Finished returns an execution that has already completed with err.
func Finished(id string, err error) *Execution {
	e := NewExecution(id)
	e.Finish(err)
	return e
}

// Finish completes the execution. Only the first call has an effect.
func (e *Execution) Finish(err error) {
	e.once.Do(func() {
		e.err = err
		close(e.done)
	})
}

// Done is closed once the execution completes.
func (e *Execution) Done() <-chan struct{} { return e.done }

// Err returns the completion error. It is nil until Done is closed.
func (e *Execution) Err() error {
	select {
	case <-e.done:
		return e.err
	default:
		return nil
	}
}

// Wait blocks until completion or until ctx is done.
func (e *Execution) Wait(ctx context.Context) error {
	select {
	case <-e.done:
		return e.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
