package scss

import (
	"strings"
)

// importDirectives are the statement keywords removed by StripImports. The
// target format forbids external references entirely, so modern module
// directives go the same way as classic imports.
var importDirectives = []string{"@import", "@use", "@forward"}

// StripImports removes every import directive statement from content,
// regardless of what it targets. By the time this runs all needed mixins have
// been inlined and known variables rewritten, so the removal is unconditional.
// Returns the stripped text and the number of removed statements.
func StripImports(content string) (string, int) {
	var b strings.Builder
	b.Grow(len(content))
	removed := 0

	for i := 0; i < len(content); {
		if j := skipInert(content, i); j != i {
			b.WriteString(content[i:j])
			i = j
			continue
		}
		directive := importDirectiveAt(content, i)
		if directive == "" {
			b.WriteByte(content[i])
			i++
			continue
		}

		// consume through the statement terminator, import statements may
		// span lines when multiple targets are listed
		end := i + len(directive)
		for end < len(content) {
			if j := skipInert(content, end); j != end {
				end = j
				continue
			}
			if content[end] == ';' {
				end++
				break
			}
			if content[end] == '\n' {
				trimmed := strings.TrimSpace(content[i:end])
				if trimmed != directive && !strings.HasSuffix(trimmed, ",") {
					// statement does not continue on the next line and has no
					// terminator, drop the line only
					break
				}
			}
			end++
		}
		// swallow the rest of an emptied line
		for end < len(content) && (content[end] == ' ' || content[end] == '\t') {
			end++
		}
		if end < len(content) && content[end] == '\n' && endsLineEmpty(&b) {
			end++
		}
		removed++
		i = end
	}
	return b.String(), removed
}

func importDirectiveAt(s string, i int) string {
	if s[i] != '@' {
		return ""
	}
	for _, d := range importDirectives {
		if strings.HasPrefix(s[i:], d) {
			if i+len(d) == len(s) || !isIdentByte(s[i+len(d)]) {
				return d
			}
		}
	}
	return ""
}

// endsLineEmpty reports whether the output so far ends at a line start or
// contains only whitespace since the last newline.
func endsLineEmpty(b *strings.Builder) bool {
	s := b.String()
	for k := len(s) - 1; k >= 0; k-- {
		switch s[k] {
		case '\n':
			return true
		case ' ', '\t':
			continue
		default:
			return false
		}
	}
	return true
}
