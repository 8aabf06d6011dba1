// Package clang matches compiler invocation lines and rewrites them into
// compilation database records.
package clang

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"xcdb/internal/model"
	"xcdb/internal/pch"
	"xcdb/internal/shell"
)

var (
	// ErrUnresolvedPCH reports an -include path that is neither a real file
	// nor a known precompiled-header artifact. A record carrying it would
	// corrupt every consumer of the database, so the conversion stops.
	ErrUnresolvedPCH = errors.New("precompiled header source not found")

	// ErrNoSourceFile reports an invocation without a -c <file> argument.
	ErrNoSourceFile = errors.New("invocation has no -c source file")
)

// drivers is the allow-list of compiler driver names that mark a log line as
// a compile invocation. A leading path is ignored when matching.
var drivers = map[string]struct{}{
	"clang":                            {},
	"clang++":                          {},
	"llvm-cpp-4.2":                     {},
	"llvm-g++":                         {},
	"llvm-g++-4.2":                     {},
	"llvm-gcc":                         {},
	"llvm-gcc-4.2":                     {},
	"arm-apple-darwin10-llvm-g++-4.2":  {},
	"arm-apple-darwin10-llvm-gcc-4.2":  {},
	"i686-apple-darwin10-llvm-g++-4.2": {},
	"i686-apple-darwin10-llvm-gcc-4.2": {},
	"gcc":                              {},
	"g++":                              {},
	"c++":                              {},
	"cc":                               {},
}

// pchSuffixes are the artifact names a precompile step writes with -o.
var pchSuffixes = []string{".pch.pth", ".pch.pch", ".h.pch"}

// includeSuffixes is the probe order when an -include path has to be looked
// up as a precompiled-header artifact: the exact path first, then .pth
// appended, then .pch appended.
var includeSuffixes = []string{"", ".pth", ".pch"}

// MatchInvocation reports whether line looks like a supported compiler
// invocation: a known driver name followed by -c and then -o, in that order.
// Requiring all three keeps unrelated tool invocations that share flag names
// out of the database.
func MatchInvocation(line string) bool {
	fields := strings.Fields(line)
	rest := -1
	for i, field := range fields {
		if _, ok := drivers[filepath.Base(field)]; ok {
			rest = i + 1
			break
		}
	}
	if rest < 0 {
		return false
	}

	seenCompile := false
	for _, field := range fields[rest:] {
		switch {
		case field == "-c":
			seenCompile = true
		case field == "-o" && seenCompile:
			return true
		}
	}
	return false
}

// RegisterPCH scans one tokenized precompile invocation for a -c <header>
// and a -o <artifact> pair and records the mapping in table. Both must
// appear in the same invocation; the return value reports whether a mapping
// was added. A later registration for the same artifact wins.
func RegisterPCH(table *pch.Table, tokens []string) bool {
	var source, artifact string
	for i := 0; i+1 < len(tokens); i++ {
		switch tokens[i] {
		case "-c":
			source = tokens[i+1]
			i++
		case "-o":
			if isPCHArtifact(tokens[i+1]) {
				artifact = tokens[i+1]
			}
			i++
		}
	}
	if source == "" || artifact == "" {
		return false
	}
	table.Register(artifact, source)
	return true
}

// Process rewrites one tokenized compile invocation into a compilation
// database record. Every output token is re-quoted, -include arguments are
// resolved back to their original header when they name a precompiled-header
// artifact, and the -c argument becomes the record's file.
func Process(tokens []string, directory string, table *pch.Table, exists model.FileExists) (model.Record, error) {
	out := make([]string, 0, len(tokens))
	var source string

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok {
		case "-include":
			if i+1 == len(tokens) {
				out = append(out, shell.Quote(tok))
				continue
			}
			header, err := resolveInclude(tokens[i+1], table, exists)
			if err != nil {
				return model.Record{}, err
			}
			out = append(out, shell.Quote(tok), shell.Quote(header))
			i++
		case "-c":
			if i+1 == len(tokens) {
				out = append(out, shell.Quote(tok))
				continue
			}
			source = tokens[i+1]
			out = append(out, shell.Quote(tok), shell.Quote(source))
			i++
		default:
			out = append(out, shell.Quote(tok))
		}
	}

	if source == "" {
		return model.Record{}, ErrNoSourceFile
	}

	return model.Record{
		Directory: directory,
		Command:   strings.Join(out, " "),
		File:      filepath.Clean(source),
	}, nil
}

// resolveInclude keeps an -include path that exists on disk. A missing path
// names a precompiled-header artifact, so it is looked up in the table and
// replaced with the header that produced it.
func resolveInclude(path string, table *pch.Table, exists model.FileExists) (string, error) {
	if exists(path) {
		return path, nil
	}
	for _, suffix := range includeSuffixes {
		if source, ok := table.Lookup(path + suffix); ok {
			return source, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnresolvedPCH, path)
}

func isPCHArtifact(path string) bool {
	for _, suffix := range pchSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
