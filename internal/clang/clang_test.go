package clang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xcdb/internal/pch"
	"xcdb/internal/shell"
)

func neverExists(string) bool { return false }

func TestMatchInvocation(t *testing.T) {
	for _, tc := range []struct {
		line string
		want bool
	}{
		{line: "    clang -c a.cpp -o a.o", want: true},
		{line: "/usr/bin/clang++ -std=c++17 -c a.cpp -o a.o", want: true},
		{line: "cc -c a.c -o a.o", want: true},
		{line: "    arm-apple-darwin10-llvm-gcc-4.2 -x c -c a.c -o a.o", want: true},
		// -o before -c is not a compile invocation.
		{line: "clang -o a.o -c a.cpp", want: false},
		// Unrelated tools sharing the flags must not match.
		{line: "libtool -static -c x.o -o lib.a", want: false},
		{line: "clang -c a.cpp", want: false},
		{line: "gcc-wrapper -c a.c -o a.o", want: false},
		{line: "export LANG=en_US.US-ASCII", want: false},
		{line: "CompileC build/a.o a.cpp normal x86_64 c++ com.apple.compilers.llvm.clang.1_0.compiler", want: false},
	} {
		assert.Equal(t, tc.want, MatchInvocation(tc.line), "line: %q", tc.line)
	}
}

func TestRegisterPCH(t *testing.T) {
	table := pch.NewTable()

	ok := RegisterPCH(table, shell.Split("clang -x c++-header -c /project/x.h -o /tmp/x.h.pch"))
	require.True(t, ok)

	source, found := table.Lookup("/tmp/x.h.pch")
	require.True(t, found)
	assert.Equal(t, "/project/x.h", source)
}

func TestRegisterPCHArtifactSuffixes(t *testing.T) {
	for _, tc := range []struct {
		output string
		want   bool
	}{
		{output: "/tmp/prefix.pch.pth", want: true},
		{output: "/tmp/prefix.pch.pch", want: true},
		{output: "/tmp/x.h.pch", want: true},
		// A regular object file is not a precompiled-header artifact.
		{output: "/tmp/a.o", want: false},
		{output: "/tmp/x.h.gch", want: false},
	} {
		table := pch.NewTable()
		tokens := []string{"clang", "-c", "/project/x.h", "-o", tc.output}
		assert.Equal(t, tc.want, RegisterPCH(table, tokens), "output: %q", tc.output)
	}
}

func TestRegisterPCHRequiresBothFlags(t *testing.T) {
	table := pch.NewTable()

	assert.False(t, RegisterPCH(table, []string{"clang", "-o", "/tmp/x.h.pch"}))
	assert.False(t, RegisterPCH(table, []string{"clang", "-c", "/project/x.h"}))
	assert.Equal(t, 0, table.Len())
}

func TestProcessBasicRecord(t *testing.T) {
	tokens := shell.Split("clang -c /project/./a.cpp -o /project/a.o")

	record, err := Process(tokens, "/project", pch.NewTable(), neverExists)
	require.NoError(t, err)

	assert.Equal(t, "/project", record.Directory)
	assert.Equal(t, "clang -c /project/./a.cpp -o /project/a.o", record.Command)
	assert.Equal(t, "/project/a.cpp", record.File)
}

func TestProcessQuotesArguments(t *testing.T) {
	tokens := []string{"clang", "-DMSG=a b", "-c", "My Dir/a.cpp", "-o", "a.o"}

	record, err := Process(tokens, "/project", pch.NewTable(), neverExists)
	require.NoError(t, err)

	assert.Equal(t, `clang "-DMSG=a b" -c "My Dir/a.cpp" -o a.o`, record.Command)
	assert.Equal(t, "My Dir/a.cpp", record.File)
}

func TestProcessKeepsExistingInclude(t *testing.T) {
	exists := func(path string) bool { return path == "/project/prefix.h" }
	tokens := shell.Split("clang -include /project/prefix.h -c /project/a.cpp -o /project/a.o")

	record, err := Process(tokens, "/project", pch.NewTable(), exists)
	require.NoError(t, err)
	assert.Contains(t, record.Command, "-include /project/prefix.h")
}

func TestProcessResolvesIncludeThroughTable(t *testing.T) {
	table := pch.NewTable()
	table.Register("/tmp/x.h.pch", "/project/x.h")
	tokens := shell.Split("clang -include /tmp/x.h.pch -c /project/a.cpp -o /project/a.o")

	record, err := Process(tokens, "/project", table, neverExists)
	require.NoError(t, err)
	assert.Equal(t, "clang -include /project/x.h -c /project/a.cpp -o /project/a.o", record.Command)
	assert.Equal(t, "/project/a.cpp", record.File)
}

func TestProcessIncludeSuffixProbeOrder(t *testing.T) {
	// .pth is probed before .pch.
	table := pch.NewTable()
	table.Register("/tmp/prefix.pch.pth", "/project/pth.h")
	table.Register("/tmp/prefix.pch.pch", "/project/pch.h")
	tokens := shell.Split("clang -include /tmp/prefix.pch -c /project/a.cpp -o /project/a.o")

	record, err := Process(tokens, "/project", table, neverExists)
	require.NoError(t, err)
	assert.Contains(t, record.Command, "-include /project/pth.h")
}

func TestProcessUnresolvedInclude(t *testing.T) {
	tokens := shell.Split("clang -include /tmp/missing.pch -c /project/a.cpp -o /project/a.o")

	_, err := Process(tokens, "/project", pch.NewTable(), neverExists)
	require.ErrorIs(t, err, ErrUnresolvedPCH)
}

func TestProcessMissingSourceFile(t *testing.T) {
	tokens := shell.Split("clang -x c++ /project/a.cpp -o /project/a.o")

	_, err := Process(tokens, "/project", pch.NewTable(), neverExists)
	require.ErrorIs(t, err, ErrNoSourceFile)
}
