// Package compiledb reads and writes compilation database JSON.
package compiledb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"xcdb/internal/model"
)

// Writer streams records to an io.Writer as a JSON compilation database.
// Records are written as they arrive rather than buffered; Close terminates
// the array. Each record is pretty-printed with 2-space indentation, records
// are separated by ",\n", and the first record is preceded by a newline.
type Writer struct {
	w      io.Writer
	count  int
	opened bool
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) open() error {
	if w.opened {
		return nil
	}
	w.opened = true
	_, err := io.WriteString(w.w, "[")
	return err
}

// Write appends one record to the database.
func (w *Writer) Write(record model.Record) error {
	if err := w.open(); err != nil {
		return err
	}
	sep := ",\n"
	if w.count == 0 {
		sep = "\n"
	}
	data, err := marshalRecord(record)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w.w, sep); err != nil {
		return err
	}
	if _, err := w.w.Write(data); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count reports how many records have been written.
func (w *Writer) Count() int {
	return w.count
}

// Close terminates the JSON array. The underlying writer is not closed.
func (w *Writer) Close() error {
	if err := w.open(); err != nil {
		return err
	}
	_, err := io.WriteString(w.w, "\n]\n")
	return err
}

func marshalRecord(record model.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ReadFile loads an existing compilation database from path.
func ReadFile(path string) ([]model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read compilation database: %w", err)
	}
	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode compilation database: %w", err)
	}
	return records, nil
}
