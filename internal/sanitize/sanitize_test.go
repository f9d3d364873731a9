package sanitize

import "testing"

func TestStripANSI(t *testing.T) {
	cases := map[string]string{
		"\x1b[31mError\x1b[0m in library(foo)": "Error in library(foo)",
		"plain":                                 "plain",
		"\x1b]0;title\x07text":                  "text",
		"\x1b[?25lhidden cursor":                "hidden cursor",
	}
	for in, want := range cases {
		if got := StripANSI(in); got != want {
			t.Errorf("StripANSI(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConsoleOutputKeepsColors(t *testing.T) {
	in := "\x1b[2J\x1b[1;32mOK\x1b[0m\r\nnext\x1b[3Cx"
	want := "\x1b[1;32mOK\x1b[0m\nnext   x"
	if got := ConsoleOutput(in); got != want {
		t.Fatalf("ConsoleOutput = %q, want %q", got, want)
	}
}
