package scss

import (
	"strings"
)

// Parameter of a mixin declaration. Declaration order is significant, it
// drives positional argument binding at expansion time.
type Parameter struct {
	Name       string
	Default    string
	HasDefault bool
}

// Definition is one parsed @mixin declaration. Definitions are created once
// while the shared library is scanned and never mutated afterwards, every
// expansion substitutes into its own copy of Body.
type Definition struct {
	Name   string
	Params []Parameter
	Body   string
	File   string
	Line   int
}

// ParseDefinitions extracts every @mixin declaration from a stylesheet blob.
// Bodies are cut out with brace depth tracking, never with a "first closing
// brace" shortcut, since mixin bodies routinely contain nested rule blocks
// and media queries.
func ParseDefinitions(content, file string) []Definition {
	var defs []Definition

	for i := 0; i < len(content); {
		if j := skipInert(content, i); j != i {
			i = j
			continue
		}
		if content[i] != '@' || !strings.HasPrefix(content[i:], "@mixin") {
			i++
			continue
		}
		declStart := i
		i += len("@mixin")
		if i < len(content) && isIdentByte(content[i]) {
			// some other @-word, e.g. @mixins-disabled
			continue
		}

		i = skipSpace(content, i)
		name, next := scanIdent(content, i)
		if name == "" {
			continue
		}
		i = next

		var params []Parameter
		i = skipSpace(content, i)
		if i < len(content) && content[i] == '(' {
			close := matchingParen(content, i)
			if close == -1 {
				// declaration header is broken, nothing more to salvage here
				break
			}
			params = parseParameters(content[i+1 : close])
			i = close + 1
		}

		i = skipSpace(content, i)
		if i >= len(content) || content[i] != '{' {
			// header without a body, skip it
			continue
		}
		close := matchingBrace(content, i)
		if close == -1 {
			// unterminated body, rest of the blob is unusable
			break
		}

		defs = append(defs, Definition{
			Name:   name,
			Params: params,
			Body:   strings.TrimSpace(stripOuterIndent(content[i+1 : close])),
			File:   file,
			Line:   lineAt(content, declStart),
		})
		i = close + 1
	}
	return defs
}

// parseParameters splits a declaration parameter list on top level commas and
// separates each name from its optional default value. Commas nested inside
// parentheses, e.g. function calls used as defaults, do not split the list.
func parseParameters(list string) []Parameter {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	parts := splitTopLevel(list, ',')
	params := make([]Parameter, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		p := Parameter{Name: part}
		if colon := topLevelIndex(part, ':'); colon != -1 {
			p.Name = strings.TrimSpace(part[:colon])
			p.Default = strings.TrimSpace(part[colon+1:])
			p.HasDefault = true
		}
		params = append(params, p)
	}
	return params
}

// topLevelIndex returns the offset of the first sep outside any nesting, or -1.
func topLevelIndex(s string, sep byte) int {
	depth := 0
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
				return i
			}
		}
		i++
	}
	return -1
}

// stripOuterIndent removes one level of common leading indentation from a
// mixin body so expansions do not accumulate whitespace drift.
func stripOuterIndent(body string) string {
	lines := strings.Split(body, "\n")
	common := -1
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		if common == -1 || indent < common {
			common = indent
		}
	}
	if common <= 0 {
		return body
	}
	for i, line := range lines {
		if len(line) >= common {
			lines[i] = line[common:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}
