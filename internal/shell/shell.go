// Package shell splits and quotes shell-style command lines.
package shell

import "strings"

// Split splits a command line into argument tokens. When the line carries no
// quoting metacharacters it falls back to a plain split on spaces; otherwise
// it honors single quotes, double quotes, and backslash escapes the way a
// POSIX shell tokenizes a simple command.
func Split(cmdline string) []string {
	if !strings.ContainsAny(cmdline, `"'\`) {
		return fastSplit(cmdline)
	}
	return fullSplit(cmdline)
}

// fastSplit splits on single spaces and trims each token. For arguments
// without quotes or backslashes this agrees with full shell tokenization.
func fastSplit(cmdline string) []string {
	var args []string
	for _, field := range strings.Split(cmdline, " ") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		args = append(args, field)
	}
	return args
}

func fullSplit(cmdline string) []string {
	var (
		args            []string
		sb              strings.Builder
		started         bool
		escaped         bool
		escapedInDouble bool
		inSingle        bool
		inDouble        bool
	)

	flush := func() {
		if started {
			args = append(args, sb.String())
			sb.Reset()
			started = false
		}
	}

	for _, ch := range cmdline {
		switch {
		case escaped:
			sb.WriteRune(ch)
			started = true
			escaped = false
		case escapedInDouble:
			// Inside double quotes a backslash only escapes the quote
			// and the backslash itself.
			if ch != '"' && ch != '\\' {
				sb.WriteRune('\\')
			}
			sb.WriteRune(ch)
			escapedInDouble = false
		case inSingle:
			if ch == '\'' {
				inSingle = false
			} else {
				sb.WriteRune(ch)
			}
		case inDouble:
			switch ch {
			case '"':
				inDouble = false
			case '\\':
				escapedInDouble = true
			default:
				sb.WriteRune(ch)
			}
		case ch == '\\':
			escaped = true
			started = true
		case ch == '\'':
			inSingle = true
			started = true
		case ch == '"':
			inDouble = true
			started = true
		case ch == ' ' || ch == '\t':
			flush()
		default:
			sb.WriteRune(ch)
			started = true
		}
	}
	flush()

	return args
}

// Quote returns arg escaped for use inside a compilation database command
// string. Only space, double quote, and backslash need protection there;
// anything else passes through untouched. Backslashes are doubled before
// quotes are escaped so the inserted backslashes are not escaped twice.
func Quote(arg string) string {
	if arg == "" {
		return `""`
	}
	if !strings.ContainsAny(arg, ` "\`) {
		return arg
	}
	arg = strings.ReplaceAll(arg, `\`, `\\`)
	arg = strings.ReplaceAll(arg, `"`, `\"`)
	return `"` + arg + `"`
}
