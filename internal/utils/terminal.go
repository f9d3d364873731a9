// Package utils holds the terminal helpers the CLI uses to talk to the
// user: line prompts, confirmations, notifications and the external editor.
package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/VoxDroid/rpkgs/internal/commands"
	"github.com/VoxDroid/rpkgs/internal/notify"
)

var isTerminal = term.IsTerminal

// Terminal prompts on In/Out and prints notifications. Readers that are not
// files (tests, pipes set up by cobra) are treated as interactive; a file
// that is not a terminal is not, and prompts are answered with their
// defaults.
type Terminal struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
	// AssumeYes answers every confirmation with yes.
	AssumeYes bool

	br *bufio.Reader
}

var (
	_ commands.Prompter = (*Terminal)(nil)
	_ notify.Notifier   = (*Terminal)(nil)
)

// NewTerminal returns a Terminal on the process's standard streams.
func NewTerminal() *Terminal {
	return &Terminal{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Interactive reports whether prompts can be answered.
func (t *Terminal) Interactive() bool {
	f, ok := t.In.(*os.File)
	if !ok {
		return t.In != nil
	}
	return isTerminal(int(f.Fd()))
}

func (t *Terminal) readLine() (string, bool) {
	if t.br == nil {
		t.br = bufio.NewReader(t.In)
	}
	line, err := t.br.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// Input prints prompt and reads one line. An empty answer keeps value. End
// of input dismisses the prompt.
func (t *Terminal) Input(prompt, value, placeholder string) (string, bool, error) {
	if !t.Interactive() {
		return "", false, nil
	}
	switch {
	case value != "":
		fmt.Fprintf(t.Out, "%s [%s]: ", prompt, value)
	case placeholder != "":
		fmt.Fprintf(t.Out, "%s (%s): ", prompt, placeholder)
	default:
		fmt.Fprintf(t.Out, "%s: ", prompt)
	}
	line, ok := t.readLine()
	if !ok {
		return "", false, nil
	}
	if line == "" {
		line = value
	}
	return line, true, nil
}

// Confirm asks a yes/no question. Anything but y or yes is no.
func (t *Terminal) Confirm(prompt string) (bool, error) {
	if t.AssumeYes {
		return true, nil
	}
	if !t.Interactive() {
		return false, nil
	}
	fmt.Fprintf(t.Out, "%s [y/N]: ", prompt)
	line, _ := t.readLine()
	resp := strings.ToLower(line)
	return resp == "y" || resp == "yes", nil
}

// Info prints msg on Out.
func (t *Terminal) Info(msg string) { fmt.Fprintln(t.Out, msg) }

// Warn prints msg on Err.
func (t *Terminal) Warn(msg string) { fmt.Fprintln(t.errOut(), "warning: "+msg) }

// Error prints msg on Err.
func (t *Terminal) Error(msg string) { fmt.Fprintln(t.errOut(), "error: "+msg) }

// Offer prints msg and runs the action when the user accepts it.
func (t *Terminal) Offer(msg, action string, run func()) {
	fmt.Fprintln(t.Out, msg)
	if yes, _ := t.Confirm(action + "?"); yes && run != nil {
		run()
	}
}

func (t *Terminal) errOut() io.Writer {
	if t.Err == nil {
		return t.Out
	}
	return t.Err
}
