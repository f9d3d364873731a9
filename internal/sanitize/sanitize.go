// Package sanitize cleans interpreter output before it is shown to users.
// StripANSI removes every escape sequence and is used for error messages;
// ConsoleOutput keeps SGR colors for the TUI console pane while removing
// control sequences that can affect the global terminal state (alternate
// screen, clear-screen, cursor movement, OSC sequences, etc.).
package sanitize

import (
	"regexp"
	"strconv"
	"strings"
)

// Precompiled regexps used by the sanitizers.
var (
	oscRe = regexp.MustCompile(`\x1b\][^\x07]*\x07`)
	csiRe = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
)

// StripANSI removes all ANSI escape sequences, leaving plain text.
func StripANSI(in string) string {
	out := oscRe.ReplaceAllString(in, "")
	return csiRe.ReplaceAllString(out, "")
}

// ConsoleOutput removes non-SGR control sequences while preserving SGR ("m")
// color sequences. Cursor-forward sequences are replaced with spaces so
// column layouts stay readable. CR/LF sequences are normalized to LF.
func ConsoleOutput(in string) string {
	// Normalize CRLF and lone CR to LF
	out := strings.ReplaceAll(in, "\r\n", "\n")
	out = strings.ReplaceAll(out, "\r", "\n")

	out = oscRe.ReplaceAllString(out, "")

	// keep SGR (colors), convert cursor-positioning to spaces, drop the rest
	out = csiRe.ReplaceAllStringFunc(out, replaceCsi)

	return out
}

// replaceCsi handles a single CSI sequence match.
func replaceCsi(s string) string {
	suffix := s[len(s)-1]
	switch suffix {
	case 'm':
		return s
	case 'C':
		// Cursor Forward: \x1b[<n>C → n spaces (default 1)
		return strings.Repeat(" ", csiParam(s, 1))
	case 'G':
		// column is unknown in a streaming sanitizer; keep neighbours apart
		return "  "
	default:
		return ""
	}
}

// csiParam extracts the first numeric parameter from a CSI sequence like
// \x1b[<n><letter>. Returns def if the parameter is absent or invalid.
func csiParam(s string, def int) int {
	body := s[2 : len(s)-1]
	body = strings.TrimLeft(body, "?")
	if body == "" {
		return def
	}
	if idx := strings.IndexByte(body, ';'); idx >= 0 {
		body = body[:idx]
	}
	if n, err := strconv.Atoi(body); err == nil && n > 0 {
		return n
	}
	return def
}
