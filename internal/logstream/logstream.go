// Package logstream turns build-log inputs into a forward-only line stream.
package logstream

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Source yields log lines one at a time. Next reports ok=false once the
// stream is exhausted, which is the normal termination signal; Err surfaces
// any read or decode failure afterwards.
type Source interface {
	Next() (line string, ok bool)
	Err() error
}

// New selects a line source for r based on the input file name: .json and
// .jsonl inputs are read as JSON-lines records whose command field is split
// into pseudo-log-lines, anything else is read as a plain text log.
func New(r io.Reader, path string) Source {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonl":
		return &jsonLinesSource{scanner: newScanner(r)}
	default:
		return &textSource{scanner: newScanner(r)}
	}
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	// Compiler invocation lines routinely exceed bufio's default limit.
	const maxCapacity = 8 * 1024 * 1024
	scanner.Buffer(make([]byte, 1024), maxCapacity)
	return scanner
}

type textSource struct {
	scanner *bufio.Scanner
}

func (s *textSource) Next() (string, bool) {
	if !s.scanner.Scan() {
		return "", false
	}
	return s.scanner.Text(), true
}

func (s *textSource) Err() error {
	return s.scanner.Err()
}

type commandRecord struct {
	Command string `json:"command"`
}

// jsonLinesSource reads one JSON object per input line and feeds out the
// embedded command text line by line, preserving line breaks inside a single
// command field and concatenating across records.
type jsonLinesSource struct {
	scanner *bufio.Scanner
	pending []string
	lineno  int
	err     error
}

func (s *jsonLinesSource) Next() (string, bool) {
	for len(s.pending) == 0 {
		if s.err != nil || !s.scanner.Scan() {
			return "", false
		}
		s.lineno++
		raw := strings.TrimSpace(s.scanner.Text())
		if raw == "" {
			continue
		}
		var rec commandRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			s.err = fmt.Errorf("decode record on line %d: %w", s.lineno, err)
			return "", false
		}
		s.pending = strings.Split(rec.Command, "\n")
	}

	line := s.pending[0]
	s.pending = s.pending[1:]
	return line, true
}

func (s *jsonLinesSource) Err() error {
	if s.err != nil {
		return s.err
	}
	return s.scanner.Err()
}
