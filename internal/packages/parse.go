package packages

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseError reports a malformed or empty query-program payload.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse package list: %v", e.Err)
	}
	return fmt.Sprintf("parse package list %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseRows decodes the JSON array produced by the query program. An empty
// library is written as `[]` (or `{}` by some jsonlite versions for an empty
// list) and yields no rows.
func ParseRows(data []byte) ([]RawRow, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &ParseError{Err: fmt.Errorf("empty payload")}
	}
	if bytes.Equal(trimmed, []byte("{}")) {
		return []RawRow{}, nil
	}
	var rows []RawRow
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, &ParseError{Err: err}
	}
	if rows == nil {
		return nil, &ParseError{Err: fmt.Errorf("payload is not an array")}
	}
	return rows, nil
}
