// Package debug renders indented tree dumps of internal structures, used by
// the dumpmixins command to show the registry a migration run would work with.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

const indentStep = "  "

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{w: &strings.Builder{}}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

// Line appends one formatted line at the given depth.
func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.w.WriteString(strings.Repeat(indentStep, depth))
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock appends a labeled value at the given depth. The value is quoted
// so embedded newlines and control characters stay on one dump line.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.w.WriteString(strings.Repeat(indentStep, depth))
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
