package scss

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// RewriteRule replaces one known legacy token with its target platform
// equivalent. Substitution is purely textual.
type RewriteRule struct {
	From string
	To   string
}

// Rewriter applies a fixed table of variable and asset path substitutions.
// It must run after include resolution, expanded mixin bodies may introduce
// legacy tokens of their own.
type Rewriter struct {
	variables []RewriteRule
	paths     []RewriteRule
	log       *zap.Logger
}

// NewRewriter validates the rule table and builds a rewriter from it. Rules
// are order independent only while no pattern overlaps another and no rule
// output reintroduces another rule's pattern, so both kinds of overlap are
// rejected up front.
func NewRewriter(variables, paths []RewriteRule, log *zap.Logger) (*Rewriter, error) {
	if log == nil {
		log = zap.NewNop()
	}

	froms := make([]string, 0, len(variables)+len(paths))
	tos := make([]string, 0, len(variables)+len(paths))
	for _, r := range variables {
		if strings.TrimSpace(r.From) == "" {
			return nil, fmt.Errorf("variable rewrite rule with empty pattern (to %q)", r.To)
		}
		froms = append(froms, r.From)
		tos = append(tos, r.To)
	}
	for _, r := range paths {
		if strings.TrimSpace(r.From) == "" {
			return nil, fmt.Errorf("asset path rewrite rule with empty pattern (to %q)", r.To)
		}
		froms = append(froms, r.From)
		tos = append(tos, r.To)
	}
	for i := 0; i < len(froms); i++ {
		for j := i + 1; j < len(froms); j++ {
			if strings.Contains(froms[i], froms[j]) || strings.Contains(froms[j], froms[i]) {
				return nil, fmt.Errorf("overlapping rewrite patterns %q and %q, result would depend on rule order", froms[i], froms[j])
			}
		}
	}
	for _, to := range tos {
		for _, from := range froms {
			if strings.Contains(to, from) {
				return nil, fmt.Errorf("rewrite output %q contains pattern %q, result would depend on rule order", to, from)
			}
		}
	}

	return &Rewriter{
		variables: variables,
		paths:     paths,
		log:       log.Named("scss-rewriter"),
	}, nil
}

// Apply rewrites every known legacy token in content. Variable patterns are
// replaced on identifier boundaries so $accent never matches inside
// $accent-muted, asset path prefixes are replaced verbatim.
func (rw *Rewriter) Apply(content string) string {
	replaced := 0
	for _, r := range rw.variables {
		before := content
		content = substituteToken(content, r.From, r.To)
		if content != before {
			replaced++
		}
	}
	for _, r := range rw.paths {
		before := content
		content = strings.ReplaceAll(content, r.From, r.To)
		if content != before {
			replaced++
		}
	}
	if replaced > 0 {
		rw.log.Debug("Applied rewrite rules", zap.Int("rules_hit", replaced))
	}
	return content
}

// RuleCount returns the total number of configured rules.
func (rw *Rewriter) RuleCount() int {
	return len(rw.variables) + len(rw.paths)
}
