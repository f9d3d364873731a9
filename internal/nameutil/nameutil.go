// Package nameutil validates and cleans up R package names typed by users
// before they are interpolated into interpreter code.
package nameutil

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// R package names: letters, digits and dots, starting with a letter, not
// ending with a dot, at least two characters.
var packageNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9.]*[A-Za-z0-9]$`)

// ValidateName checks whether the provided name is an acceptable R package
// name. It trims and checks for empty names, non-UTF8 bytes, control
// characters and the R naming rules. It does NOT mutate the input; use
// SanitizeName to remove undesirable characters first when desired.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("invalid package name: name cannot be empty")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("invalid package name: contains invalid encoding")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("invalid package name: contains control character U+%04X (%q)", r, r)
		}
	}
	if !packageNameRe.MatchString(name) {
		return fmt.Errorf("invalid package name %q: use letters, digits and dots, starting with a letter", name)
	}
	return nil
}

// SanitizeName removes common invisible/control characters and returns the
// sanitized string and a boolean indicating whether any change was made.
// It removes control characters, NULs, and zero-width characters commonly
// introduced by copy/paste (e.g., U+200B). Trimming of leading/trailing
// whitespace is also performed.
func SanitizeName(name string) (string, bool) {
	if name == "" {
		return name, false
	}
	runes := []rune(name)
	out := make([]rune, 0, len(runes))
	changed := false
	for _, r := range runes {
		if unicode.IsControl(r) {
			changed = true
			continue
		}
		// remove zero-width and other invisible separators
		switch r {
		case '\u200B', '\u200C', '\u200D', '\uFEFF':
			changed = true
			continue
		}
		out = append(out, r)
	}
	res := strings.TrimSpace(string(out))
	if res != name {
		changed = true
	}
	return res, changed
}

// SplitList splits a comma separated list of package names as typed into the
// install prompt. Entries are sanitized and empty entries dropped; the first
// invalid name aborts with an error.
func SplitList(input string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(input, ",") {
		name, _ := SanitizeName(part)
		if name == "" {
			continue
		}
		if err := ValidateName(name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}
