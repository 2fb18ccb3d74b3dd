package scss

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Validate is the hard gate before anything is written: the final text is
// checked for balanced braces and then walked by a real CSS parser. A nil
// result means the document may be persisted.
//
// The brace balance check runs first and separately because the grammar
// parser is tolerant by construction (it has to survive arbitrary real world
// stylesheets) and will happily recover from a dropped closing brace that
// would corrupt the document downstream.
func Validate(content, file string, log *zap.Logger) []Diagnostic {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("scss-validator")

	var diags []Diagnostic

	if d := checkBraceBalance(content, file); d != nil {
		diags = append(diags, *d)
	}

	input := parse.NewInput(bytes.NewReader([]byte(content)))
	parser := css.NewParser(input, false)
	for {
		gt, _, _ := parser.Next()
		if gt != css.ErrorGrammar {
			continue
		}
		err := parser.Err()
		if err == nil || errors.Is(err, io.EOF) {
			break
		}
		line := 0
		var perr *parse.Error
		if errors.As(err, &perr) {
			line, _, _ = perr.Position()
		}
		diags = append(diags, Diagnostic{
			Severity: SeverityError,
			Message:  fmt.Sprintf("syntax error: %v", err),
			File:     file,
			Line:     line,
		})
		break
	}

	if len(diags) > 0 {
		log.Debug("Validation failed", zap.String("file", file), zap.Int("problems", len(diags)))
	}
	return diags
}

// checkBraceBalance scans content outside strings and comments and verifies
// that every opened block is closed and no block is closed twice.
func checkBraceBalance(content, file string) *Diagnostic {
	depth := 0
	lastOpen := 0
	for i := 0; i < len(content); {
		if j := skipInert(content, i); j != i {
			i = j
			continue
		}
		switch content[i] {
		case '{':
			depth++
			lastOpen = i
		case '}':
			depth--
			if depth < 0 {
				d := errorAt(content, file, i, "unbalanced braces: closing brace without matching open")
				return &d
			}
		}
		i++
	}
	if depth != 0 {
		d := errorAt(content, file, lastOpen, "unbalanced braces: %d block(s) left open", depth)
		return &d
	}
	return nil
}
