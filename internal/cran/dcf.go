package cran

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

// Description holds the DESCRIPTION fields rpkgs displays.
type Description struct {
	Package    string
	Version    string
	Title      string
	License    string
	URL        string
	Published  string
	Maintainer string
	Depends    string
	Imports    string
}

var stanzaSep = regexp.MustCompile(`\r?\n[ \t]*\r?\n`)

// ParseIndex parses a repository PACKAGES index: one stanza per package,
// stanzas separated by blank lines. Stanzas without a Package field are
// dropped.
func ParseIndex(content string) []Description {
	var out []Description
	for _, stanza := range stanzaSep.Split(content, -1) {
		if strings.TrimSpace(stanza) == "" {
			continue
		}
		if d := ParseDescription(stanza); d.Package != "" {
			out = append(out, d)
		}
	}
	return out
}

// ParseDescription parses a DCF (Debian control file) DESCRIPTION. Field
// names start at column zero; indented lines continue the previous field.
func ParseDescription(content string) Description {
	var d Description
	sc := bufio.NewScanner(strings.NewReader(content))

	var field string
	var value strings.Builder
	commit := func() {
		if field == "" {
			return
		}
		v := strings.TrimSpace(value.String())
		switch field {
		case "Package":
			d.Package = v
		case "Version":
			d.Version = v
		case "Title":
			d.Title = v
		case "License":
			d.License = v
		case "URL":
			d.URL = v
		case "Published", "Date/Publication":
			if d.Published == "" || field == "Published" {
				d.Published = v
			}
		case "Maintainer":
			d.Maintainer = v
		case "Depends":
			d.Depends = v
		case "Imports":
			d.Imports = v
		}
	}

	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
		case line[0] == ' ' || line[0] == '\t':
			if value.Len() > 0 {
				value.WriteString(" ")
			}
			value.WriteString(strings.TrimSpace(line))
		case strings.Contains(line, ":"):
			commit()
			name, rest, _ := strings.Cut(line, ":")
			field = strings.TrimSpace(name)
			value.Reset()
			value.WriteString(strings.TrimSpace(rest))
		}
	}
	commit()
	return d
}

// Homepage returns the first entry of the URL field.
func (d Description) Homepage() string {
	first, _, _ := strings.Cut(d.URL, ",")
	return strings.TrimSpace(first)
}

var maintainerRe = regexp.MustCompile(`^([^<]+)?<?([^>]+@[^>]+)?>?$`)

// MaintainerParts splits "Name <email>".
func (d Description) MaintainerParts() (name, email string) {
	m := maintainerRe.FindStringSubmatch(strings.TrimSpace(d.Maintainer))
	if len(m) > 1 {
		name = strings.TrimSpace(m[1])
	}
	if len(m) > 2 {
		email = strings.TrimSpace(m[2])
	}
	return name, email
}

var depRe = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9.]*)\s*(\([^)]+\))?`)

// Dependencies lists package names from Depends and Imports, skipping R.
func (d Description) Dependencies() []string {
	var out []string
	for _, list := range []string{d.Depends, d.Imports} {
		for _, part := range strings.Split(list, ",") {
			m := depRe.FindStringSubmatch(strings.TrimSpace(part))
			if len(m) < 2 || m[1] == "R" {
				continue
			}
			out = append(out, m[1])
		}
	}
	return out
}

// CompareVersions orders R package versions ("1.2.3", "0.4-2") the way
// package_version does: numeric components separated by '.' or '-'.
// Returns -1, 0 or 1.
func CompareVersions(a, b string) int {
	split := func(s string) []int {
		fields := strings.FieldsFunc(s, func(r rune) bool { return r == '.' || r == '-' })
		out := make([]int, 0, len(fields))
		for _, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				n = 0
			}
			out = append(out, n)
		}
		return out
	}
	av, bv := split(a), split(b)
	for i := 0; i < len(av) || i < len(bv); i++ {
		var x, y int
		if i < len(av) {
			x = av[i]
		} else {
			return -1
		}
		if i < len(bv) {
			y = bv[i]
		} else {
			return 1
		}
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}
