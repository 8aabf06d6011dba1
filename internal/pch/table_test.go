package pch

import "testing"

func TestTableRegisterAndLookup(t *testing.T) {
	table := NewTable()

	if _, ok := table.Lookup("/tmp/x.h.pch"); ok {
		t.Fatal("empty table should not resolve anything")
	}

	table.Register("/tmp/x.h.pch", "/project/x.h")
	source, ok := table.Lookup("/tmp/x.h.pch")
	if !ok {
		t.Fatal("expected artifact to resolve")
	}
	if source != "/project/x.h" {
		t.Fatalf("unexpected source: %s", source)
	}
	if table.Len() != 1 {
		t.Fatalf("unexpected table size: %d", table.Len())
	}
}

func TestTableLastWriterWins(t *testing.T) {
	table := NewTable()
	table.Register("/tmp/x.h.pch", "/project/old.h")
	table.Register("/tmp/x.h.pch", "/project/new.h")

	source, ok := table.Lookup("/tmp/x.h.pch")
	if !ok || source != "/project/new.h" {
		t.Fatalf("expected last registration to win, got %q (ok=%v)", source, ok)
	}
	if table.Len() != 1 {
		t.Fatalf("re-registration should not grow the table: %d", table.Len())
	}
}
