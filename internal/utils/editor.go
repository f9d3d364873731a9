package utils

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/kballard/go-shellquote"
)

// EditorCommand returns the editor command line: $VISUAL, then $EDITOR,
// then notepad on Windows and vi elsewhere.
func EditorCommand() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	if runtime.GOOS == "windows" {
		return "notepad"
	}
	return "vi"
}

// OpenEditor opens path in the user's editor and waits for it to exit. The
// editor command may carry arguments ("code --wait").
func OpenEditor(path string) error {
	words, err := shellquote.Split(EditorCommand())
	if err != nil {
		return fmt.Errorf("parse editor command: %w", err)
	}
	if len(words) == 0 {
		return fmt.Errorf("open editor: empty editor command")
	}
	cmd := exec.Command(words[0], append(words[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("open editor: %w", err)
	}
	return nil
}
