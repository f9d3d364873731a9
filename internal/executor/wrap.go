package executor

import (
	"fmt"
	"strconv"
	"strings"
)

const markerPrefix = "<<rpkgs:"

// marker kinds emitted by wrapped submissions
const (
	markBegin = "begin"
	markOK    = "ok"
	markError = "error"
)

// QuoteR renders s as an R string literal. Go's quoting escapes (\n, \t,
// \", \\, \xhh, \uXXXX, \UXXXXXXXX) are all valid in R string literals.
func QuoteR(s string) string {
	return strconv.Quote(s)
}

// wrapR wraps user code so the session reports begin, ok and error markers
// on stdout. The code is parsed from a string literal so syntax errors are
// caught too, and visible results are printed just like at the console
// prompt. Errors never reach top level, which would halt a non-interactive
// interpreter.
func wrapR(id, code string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "local({\n")
	fmt.Fprintf(&b, "  cat(%s, \"\\n\", sep = \"\"); flush(stdout())\n", QuoteR(markerPrefix+markBegin+":"+id+">>"))
	fmt.Fprintf(&b, "  .rpkgs_err <- tryCatch({\n")
	fmt.Fprintf(&b, "    for (.rpkgs_expr in parse(text = %s, keep.source = FALSE)) {\n", QuoteR(code))
	fmt.Fprintf(&b, "      .rpkgs_res <- withVisible(eval(.rpkgs_expr, envir = globalenv()))\n")
	fmt.Fprintf(&b, "      if (.rpkgs_res$visible) print(.rpkgs_res$value)\n")
	fmt.Fprintf(&b, "    }\n")
	fmt.Fprintf(&b, "    NULL\n")
	fmt.Fprintf(&b, "  }, error = function(e) {\n")
	fmt.Fprintf(&b, "    call <- conditionCall(e)\n")
	fmt.Fprintf(&b, "    prefix <- if (is.null(call)) \"Error: \" else paste0(\"Error in \", deparse(call)[1], \": \")\n")
	fmt.Fprintf(&b, "    paste0(prefix, conditionMessage(e))\n")
	fmt.Fprintf(&b, "  })\n")
	fmt.Fprintf(&b, "  if (is.null(.rpkgs_err)) cat(%s, \"\\n\", sep = \"\")\n", QuoteR(markerPrefix+markOK+":"+id+">>"))
	fmt.Fprintf(&b, "  else cat(%s, gsub(\"[\\r\\n]+\", \" \", .rpkgs_err), \"\\n\", sep = \"\")\n", QuoteR(markerPrefix+markError+":"+id+">> "))
	fmt.Fprintf(&b, "  flush(stdout())\n")
	fmt.Fprintf(&b, "  invisible(NULL)\n")
	fmt.Fprintf(&b, "})\n")
	return b.String()
}

// marker is a parsed status line.
type marker struct {
	kind    string
	id      string
	message string
}

// splitMarker looks for a status marker in line. It returns any output text
// preceding the marker (the interpreter may not have ended the previous
// output with a newline) and the marker itself.
func splitMarker(line string) (before string, m marker, ok bool) {
	idx := strings.Index(line, markerPrefix)
	if idx < 0 {
		return line, marker{}, false
	}
	rest := line[idx+len(markerPrefix):]
	end := strings.Index(rest, ">>")
	if end < 0 {
		return line, marker{}, false
	}
	head := rest[:end]
	kind, id, found := strings.Cut(head, ":")
	if !found || id == "" {
		return line, marker{}, false
	}
	switch kind {
	case markBegin, markOK, markError:
	default:
		return line, marker{}, false
	}
	return line[:idx], marker{kind: kind, id: id, message: strings.TrimSpace(rest[end+2:])}, true
}
