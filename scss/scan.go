package scss

import (
	"strings"
)

// Low level scanning helpers shared by the mixin parser, include resolver and
// import stripper. Everything here operates on byte offsets into the source
// text and is aware of strings and comments, so that directive keywords inside
// quoted values or commented out code are never treated as live syntax.

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_'
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// skipSpace returns the first offset at or after i that is not whitespace.
func skipSpace(s string, i int) int {
	for i < len(s) && isSpaceByte(s[i]) {
		i++
	}
	return i
}

// skipInert advances over a string literal or comment starting at i and
// returns the offset just past it. When s[i] does not start one, i is
// returned unchanged.
func skipInert(s string, i int) int {
	switch {
	case s[i] == '"' || s[i] == '\'':
		quote := s[i]
		for j := i + 1; j < len(s); j++ {
			switch s[j] {
			case '\\':
				j++
			case quote:
				return j + 1
			}
		}
		return len(s)
	case s[i] == '/' && i+1 < len(s) && s[i+1] == '/':
		if j := strings.IndexByte(s[i:], '\n'); j != -1 {
			return i + j
		}
		return len(s)
	case s[i] == '/' && i+1 < len(s) && s[i+1] == '*':
		if j := strings.Index(s[i+2:], "*/"); j != -1 {
			return i + 2 + j + 2
		}
		return len(s)
	}
	return i
}

// scanIdent reads an identifier starting at i and returns it together with
// the offset just past it. Empty identifier means there was none.
func scanIdent(s string, i int) (string, int) {
	j := i
	for j < len(s) && isIdentByte(s[j]) {
		j++
	}
	return s[i:j], j
}

// substituteTokens replaces every word-boundary occurrence of each token in s
// with its mapped value in a single left to right scan. Inserted values are
// never rescanned, so a value that happens to contain another token's text
// stays intact.
func substituteTokens(s string, repl map[string]string) string {
	if len(repl) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		replaced := false
		for token, value := range repl {
			if token == "" || !strings.HasPrefix(s[i:], token) {
				continue
			}
			if end := i + len(token); end < len(s) && isIdentByte(s[end]) {
				// longer identifier, not this token
				continue
			}
			b.WriteString(value)
			i += len(token)
			replaced = true
			break
		}
		if !replaced {
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}

// matchingBrace returns the offset of the '}' matching the '{' at open, or -1
// when the text ends before the block is closed. Nested blocks, strings and
// comments are handled, which is what makes bodies with media queries and
// conditional blocks come out whole.
func matchingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); {
		if j := skipInert(s, i); j != i {
			i = j
			continue
		}
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return -1
}

// matchingParen is the parenthesis counterpart of matchingBrace.
func matchingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); {
		if j := skipInert(s, i); j != i {
			i = j
			continue
		}
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return -1
}

// splitTopLevel splits s on sep occurrences that are not nested inside
// parentheses, brackets, braces, strings or comments. Used for both mixin
// parameter lists and include argument lists, so that default values like
// rgba(0, 0, 0, 0.5) survive intact.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); {
		if j := skipInert(s, i); j != i {
			i = j
			continue
		}
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
		i++
	}
	parts = append(parts, s[start:])
	return parts
}

// lineAt returns the 1-based line number of offset pos.
func lineAt(s string, pos int) int {
	if pos > len(s) {
		pos = len(s)
	}
	return 1 + strings.Count(s[:pos], "\n")
}

// excerptAt returns the trimmed source line containing offset pos.
func excerptAt(s string, pos int) string {
	if pos > len(s) {
		pos = len(s)
	}
	start := strings.LastIndexByte(s[:pos], '\n') + 1
	end := strings.IndexByte(s[pos:], '\n')
	if end == -1 {
		end = len(s)
	} else {
		end += pos
	}
	return strings.TrimSpace(s[start:end])
}

// substituteToken replaces every word-boundary occurrence of token in s with
// value. A token "$size" is not matched inside "$size-large".
func substituteToken(s, token, value string) string {
	if !strings.Contains(s, token) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		j := strings.Index(s[i:], token)
		if j == -1 {
			b.WriteString(s[i:])
			break
		}
		j += i
		end := j + len(token)
		if end < len(s) && isIdentByte(s[end]) {
			// longer identifier, not our token
			b.WriteString(s[i:end])
			i = end
			continue
		}
		b.WriteString(s[i:j])
		b.WriteString(value)
		i = end
	}
	return b.String()
}
