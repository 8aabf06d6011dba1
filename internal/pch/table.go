// Package pch tracks which header produced each precompiled-header artifact.
package pch

// Table maps a precompiled-header artifact path to the header source it was
// generated from. One table lives for the duration of a conversion run: the
// scanner fills it while walking ProcessPCH sections and the command
// processor consults it while rewriting -include arguments. Entries are
// never removed.
type Table struct {
	sources map[string]string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{sources: make(map[string]string)}
}

// Register records that artifact was generated from source. A later
// registration for the same artifact replaces the earlier one.
func (t *Table) Register(artifact, source string) {
	t.sources[artifact] = source
}

// Lookup returns the header source registered for artifact.
func (t *Table) Lookup(artifact string) (string, bool) {
	source, ok := t.sources[artifact]
	return source, ok
}

// Len reports how many artifacts are registered.
func (t *Table) Len() int {
	return len(t.sources)
}
