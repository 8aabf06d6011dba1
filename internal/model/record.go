// Package model provides the shared types of the compilation database
// converter.
package model

// Record describes how one translation unit was compiled: the working
// directory of the build step, the fully re-quoted compiler invocation, and
// the source file it compiles. File always names the literal source, never a
// precompiled-header artifact.
type Record struct {
	Directory string `json:"directory"`
	Command   string `json:"command"`
	File      string `json:"file"`
}

// DirFilter reports whether a build directory should be skipped entirely.
type DirFilter func(dir string) bool

// FileFilter reports whether a compiled source file (in normalized form)
// should be dropped from the database.
type FileFilter func(file string) bool

// FileExists reports whether path names an existing file. It is injected so
// -include resolution can be exercised without touching the real filesystem.
type FileExists func(path string) bool
