// Package format renders compilation database records for human inspection.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"xcdb/internal/model"
)

// WriteRecords writes records to w in the requested format.
func WriteRecords(w io.Writer, records []model.Record, includeHeader bool, format string) error {
	format = strings.ToLower(format)
	switch format {
	case "", "table":
		return writeRecordsTable(w, records, includeHeader)
	case "plain":
		return writeRecordsPlain(w, records, includeHeader)
	case "json":
		return writeRecordsJSON(w, records)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeRecordsPlain(w io.Writer, records []model.Record, includeHeader bool) error {
	if includeHeader {
		if _, err := fmt.Fprintln(w, "directory\tfile\tcommand"); err != nil {
			return err
		}
	}

	for _, record := range records {
		line := fmt.Sprintf(
			"%s\t%s\t%s",
			record.Directory,
			record.File,
			escapeNewlines(record.Command),
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeRecordsJSON(w io.Writer, records []model.Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeRecordsTable(w io.Writer, records []model.Record, includeHeader bool) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = true
	tw.Style().Options.SeparateHeader = true
	tw.Style().Options.DrawBorder = true

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: commandWidth(w)},
	})

	if includeHeader {
		tw.AppendHeader(table.Row{"Directory", "File", "Command"})
	}

	for _, record := range records {
		tw.AppendRow(table.Row{
			record.Directory,
			record.File,
			escapeNewlines(record.Command),
		})
	}

	if len(records) == 0 {
		tw.AppendRow(table.Row{"-", "(no records)", "-"})
	}

	_ = tw.Render()
	return nil
}

// commandWidth bounds the command column so a table on a TTY stays inside
// the terminal; elsewhere a fixed width keeps output stable.
func commandWidth(w io.Writer) int {
	const fallback = 80

	file, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(file.Fd()) {
		return fallback
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 40 {
		return fallback
	}
	return width - 40
}

func escapeNewlines(text string) string {
	return strings.ReplaceAll(text, "\n", "\\n")
}
