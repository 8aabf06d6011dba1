// Package scanner walks a build log stream and extracts compilation records.
package scanner

import (
	"fmt"
	"os"
	"strings"

	"xcdb/internal/clang"
	"xcdb/internal/logstream"
	"xcdb/internal/model"
	"xcdb/internal/pch"
	"xcdb/internal/shell"
)

// Section markers in an xcodebuild-style log.
const (
	markerCompile    = "CompileC"
	markerPrecompile = "ProcessPCH"
)

type sectionKind int

const (
	sectionCompile sectionKind = iota
	sectionPrecompile
)

func (k sectionKind) String() string {
	if k == sectionPrecompile {
		return "precompile"
	}
	return "compile"
}

// Options configures one conversion run. All fields are optional.
type Options struct {
	// ExcludeDir skips a whole section when its build directory matches.
	ExcludeDir model.DirFilter
	// ExcludeFile drops a finished record when its source file matches.
	ExcludeFile model.FileFilter
	// FileExists overrides the on-disk check used for -include resolution.
	FileExists model.FileExists
	// Debugf receives scanning diagnostics.
	Debugf func(format string, args ...any)
}

// Scanner drives one conversion run over a line source, populating table as
// precompile sections are found. Mappings registered by earlier precompile
// sections are visible to every later compile section.
type Scanner struct {
	lines logstream.Source
	table *pch.Table
	opts  Options
}

// New returns a scanner over lines that records precompiled-header mappings
// in table.
func New(lines logstream.Source, table *pch.Table, opts Options) *Scanner {
	if opts.FileExists == nil {
		opts.FileExists = func(path string) bool {
			info, err := os.Stat(path)
			return err == nil && !info.IsDir()
		}
	}
	if opts.Debugf == nil {
		opts.Debugf = func(string, ...any) {}
	}
	return &Scanner{lines: lines, table: table, opts: opts}
}

// Run scans the whole stream and calls emit for every compilation record.
// Exhausting the stream is the normal way to finish, including mid-section;
// an unresolvable precompiled-header reference aborts the run.
func (s *Scanner) Run(emit func(model.Record) error) error {
	for {
		line, ok := s.lines.Next()
		if !ok {
			return s.lines.Err()
		}

		kind, ok := matchSection(line)
		if !ok {
			continue
		}
		directory := s.readDirectory()
		if s.opts.ExcludeDir != nil && s.opts.ExcludeDir(directory) {
			s.opts.Debugf("skip %s section: directory %q excluded", kind, directory)
			continue
		}

		cmdline, ok := s.findInvocation()
		if !ok {
			// Stream ended before the section produced an invocation.
			return s.lines.Err()
		}
		tokens := shell.Split(cmdline)

		switch kind {
		case sectionPrecompile:
			if clang.RegisterPCH(s.table, tokens) {
				s.opts.Debugf("registered precompiled header (%d known)", s.table.Len())
			}
		case sectionCompile:
			record, err := clang.Process(tokens, directory, s.table, s.opts.FileExists)
			if err != nil {
				return fmt.Errorf("compile section in %q: %w", directory, err)
			}
			if s.opts.ExcludeFile != nil && s.opts.ExcludeFile(record.File) {
				s.opts.Debugf("skip record: file %q excluded", record.File)
				continue
			}
			if err := emit(record); err != nil {
				return err
			}
		}
	}
}

func matchSection(line string) (sectionKind, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	switch {
	case strings.HasPrefix(trimmed, markerCompile):
		return sectionCompile, true
	case strings.HasPrefix(trimmed, markerPrecompile):
		return sectionPrecompile, true
	}
	return 0, false
}

// readDirectory parses the line after a section marker as a `cd <dir>`
// statement. Anything else leaves the directory empty; the line is consumed
// either way.
func (s *Scanner) readDirectory() string {
	line, ok := s.lines.Next()
	if !ok {
		return ""
	}
	tokens := shell.Split(strings.TrimSpace(line))
	if len(tokens) >= 2 && tokens[0] == "cd" {
		return tokens[1]
	}
	return ""
}

// findInvocation skips progress and diagnostic noise until a supported
// compiler invocation shows up.
func (s *Scanner) findInvocation() (string, bool) {
	for {
		line, ok := s.lines.Next()
		if !ok {
			return "", false
		}
		if clang.MatchInvocation(line) {
			return line, true
		}
	}
}
