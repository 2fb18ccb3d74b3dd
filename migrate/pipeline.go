// Package migrate drives per theme stylesheet migration: it discovers legacy
// sources, runs them through the scss transformation engine and persists
// validated, self-contained output.
package migrate

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"scssmig/common"
	"scssmig/scss"
)

// ErrValidationFailed marks a target whose transformed content did not pass
// the final syntax gate. The target file is not written, other targets of the
// same theme are still attempted.
var ErrValidationFailed = errors.New("transformed stylesheet failed validation")

// SourceDocument is one legacy input file, immutable once read.
type SourceDocument struct {
	Path    string
	Content string
	Kind    common.StylesheetKind
}

// TransformedDocument is the pipeline result for one target file.
type TransformedDocument struct {
	TargetPath  string
	Content     string
	Diagnostics []scss.Diagnostic
}

// Pipeline binds the engine components for one run. The registry and
// rewriter are shared read only across every document, so a single Pipeline
// may serve concurrent themes.
type Pipeline struct {
	resolver *scss.Resolver
	rewriter *scss.Rewriter
	log      *zap.Logger
}

func NewPipeline(reg *scss.Registry, rw *scss.Rewriter, maxDepth int, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		resolver: scss.NewResolver(reg, maxDepth, log),
		rewriter: rw,
		log:      log.Named("pipeline"),
	}
}

// Transform merges the given sources into one document and runs the full
// chain: include resolution, variable and path rewriting, import stripping,
// validation. The returned document always carries the accumulated
// diagnostics; on validation failure the error is ErrValidationFailed and
// Content holds the rejected text for reporting.
func (p *Pipeline) Transform(sources []SourceDocument, targetPath string) (*TransformedDocument, error) {
	if len(sources) == 0 {
		return nil, errors.New("no sources to transform")
	}

	doc := &TransformedDocument{TargetPath: targetPath}

	merged := mergeSources(sources)
	name := sources[0].Path

	resolved, diags := p.resolver.Expand(merged, name)
	doc.Diagnostics = append(doc.Diagnostics, diags...)

	rewritten := p.rewriter.Apply(resolved)

	stripped, removed := scss.StripImports(rewritten)
	if removed > 0 {
		p.log.Debug("Stripped import directives", zap.String("target", targetPath), zap.Int("count", removed))
	}
	doc.Content = stripped

	if vdiags := scss.Validate(stripped, name, p.log); len(vdiags) > 0 {
		doc.Diagnostics = append(doc.Diagnostics, vdiags...)
		if scss.HasErrors(vdiags) {
			return doc, fmt.Errorf("%w: %s", ErrValidationFailed, vdiags[0].Message)
		}
	}
	return doc, nil
}

// mergeSources concatenates several legacy files feeding the same target.
// Each part is preceded by a separator comment naming where it came from, a
// single source is passed through untouched.
func mergeSources(sources []SourceDocument) string {
	if len(sources) == 1 {
		return sources[0].Content
	}
	var b strings.Builder
	for i, src := range sources {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "/* ==== merged from %s ==== */\n", src.Path)
		b.WriteString(strings.TrimRight(src.Content, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}
