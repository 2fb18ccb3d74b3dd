//go:build !windows

package config

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// CleanFileName strips path separators from a target stylesheet name and
// refuses names that would come out hidden or empty.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		switch sym {
		case os.PathSeparator, os.PathListSeparator:
			return -1
		}
		return sym
	}, in)
	out = strings.TrimLeft(out, ".")
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
