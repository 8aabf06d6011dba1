package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"xcdb/internal/model"
)

func sampleRecords() []model.Record {
	return []model.Record{
		{
			Directory: "/project",
			Command:   "clang -c /project/a.cpp -o /project/a.o",
			File:      "/project/a.cpp",
		},
		{
			Directory: "/other",
			Command:   "gcc -c /other/b.c -o /other/b.o",
			File:      "/other/b.c",
		},
	}
}

func TestWriteRecordsPlain(t *testing.T) {
	var buf bytes.Buffer

	if err := WriteRecords(&buf, sampleRecords(), true, "plain"); err != nil {
		t.Fatalf("WriteRecords plain returned error: %v", err)
	}

	expected := strings.Join([]string{
		"directory\tfile\tcommand",
		"/project\t/project/a.cpp\tclang -c /project/a.cpp -o /project/a.o",
		"/other\t/other/b.c\tgcc -c /other/b.c -o /other/b.o",
	}, "\n") + "\n"

	if got := buf.String(); got != expected {
		t.Fatalf("plain output mismatch:\nexpected: %q\nactual:   %q", expected, got)
	}
}

func TestWriteRecordsTable(t *testing.T) {
	var buf bytes.Buffer

	if err := WriteRecords(&buf, sampleRecords(), true, "table"); err != nil {
		t.Fatalf("WriteRecords table returned error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "DIRECTORY") || !strings.Contains(out, "COMMAND") {
		t.Fatalf("table header missing expected columns:\n%s", out)
	}
	if !strings.Contains(out, "/project/a.cpp") {
		t.Fatalf("table missing record data:\n%s", out)
	}
}

func TestWriteRecordsTableEmpty(t *testing.T) {
	var buf bytes.Buffer

	if err := WriteRecords(&buf, nil, true, "table"); err != nil {
		t.Fatalf("WriteRecords table returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "(no records)") {
		t.Fatalf("empty table placeholder missing:\n%s", buf.String())
	}
}

func TestWriteRecordsJSON(t *testing.T) {
	var buf bytes.Buffer

	if err := WriteRecords(&buf, sampleRecords(), false, "json"); err != nil {
		t.Fatalf("WriteRecords json returned error: %v", err)
	}

	var records []model.Record
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("json output does not decode: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestWriteRecordsInvalidFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, sampleRecords(), true, "xml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
