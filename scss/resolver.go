package scss

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DefaultMaxDepth bounds recursive include expansion. Deep enough for any
// sane mixin chain, small enough to stop cyclic pairs quickly.
const DefaultMaxDepth = 20

// Resolver expands @include invocations against an immutable registry. Each
// invocation site is processed independently, there is no state carried
// between sites or between documents.
type Resolver struct {
	reg      *Registry
	maxDepth int
	log      *zap.Logger
}

func NewResolver(reg *Registry, maxDepth int, log *zap.Logger) *Resolver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{reg: reg, maxDepth: maxDepth, log: log.Named("scss-resolver")}
}

// Expand replaces every mixin invocation in content with its fully resolved,
// argument substituted body. Unresolved invocations are never deleted: they
// stay in the output commented out behind an UNRESOLVED MIXIN marker.
func (r *Resolver) Expand(content, file string) (string, []Diagnostic) {
	var diags []Diagnostic
	out := r.expand(content, file, 0, &diags)
	return out, diags
}

func (r *Resolver) expand(content, file string, depth int, diags *[]Diagnostic) string {
	var b strings.Builder
	b.Grow(len(content))

	for i := 0; i < len(content); {
		if j := skipInert(content, i); j != i {
			b.WriteString(content[i:j])
			i = j
			continue
		}
		if content[i] != '@' || !strings.HasPrefix(content[i:], "@include") ||
			(i+len("@include") < len(content) && isIdentByte(content[i+len("@include")])) {
			b.WriteByte(content[i])
			i++
			continue
		}

		site := i
		p := skipSpace(content, i+len("@include"))
		name, p := scanIdent(content, p)
		if name == "" {
			// stray keyword, keep it as is
			b.WriteString(content[i:p])
			i = p
			continue
		}

		var args []string
		p = skipSpace(content, p)
		if p < len(content) && content[p] == '(' {
			close := matchingParen(content, p)
			if close == -1 {
				*diags = append(*diags, errorAt(content, file, site, "unterminated argument list for mixin %q", name))
				b.WriteString(content[site:])
				return b.String()
			}
			args = parseArguments(content[p+1 : close])
			p = close + 1
		}

		// statement terminator or trailing content block
		var block string
		hasBlock := false
		end := skipSpace(content, p)
		switch {
		case end < len(content) && content[end] == ';':
			end++
		case end < len(content) && content[end] == '{':
			close := matchingBrace(content, end)
			if close == -1 {
				*diags = append(*diags, errorAt(content, file, site, "unterminated content block for mixin %q", name))
				b.WriteString(content[site:])
				return b.String()
			}
			block = strings.TrimSpace(content[end+1 : close])
			hasBlock = true
			end = close + 1
		default:
			// inclusion right before a closing brace or at EOF is legal
			// without a semicolon
			end = p
		}

		def, found := r.reg.Lookup(name)
		if !found {
			*diags = append(*diags, warningAt(content, file, site, "mixin %q is not defined in the shared library", name))
			r.log.Warn("Unresolved mixin", zap.String("mixin", name), zap.String("file", file), zap.Int("line", lineAt(content, site)))
			b.WriteString("/* UNRESOLVED MIXIN: ")
			b.WriteString(name)
			b.WriteString(" - manual migration required */\n")
			b.WriteString("/* ")
			b.WriteString(neutralizeComment(strings.TrimSpace(content[site:end])))
			b.WriteString(" */")
			i = end
			continue
		}

		if depth >= r.maxDepth {
			*diags = append(*diags, errorAt(content, file, site, "include depth limit (%d) exceeded while expanding mixin %q", r.maxDepth, name))
			r.log.Error("Include depth limit exceeded, possible mixin cycle", zap.String("mixin", name), zap.Int("limit", r.maxDepth))
			b.WriteString(fmt.Sprintf("/* INCLUDE DEPTH LIMIT (%d) REACHED - expansion stopped */\n", r.maxDepth))
			b.WriteString(content[site:end])
			i = end
			continue
		}

		body := r.bind(def, args, content, file, site, diags)
		expanded := r.expand(body, def.File, depth+1, diags)
		if hasBlock {
			// the caller supplied a content block, keep it after the body
			expanded = expanded + "\n" + r.expand(block, file, depth, diags)
		}
		expanded = strings.TrimSpace(expanded)
		if expanded != "" && !strings.HasSuffix(expanded, ";") && !strings.HasSuffix(expanded, "}") {
			expanded += ";"
		}
		b.WriteString(expanded)
		i = end
	}
	return b.String()
}

// bind substitutes invocation arguments into a private copy of the mixin
// body. Arguments bind to parameters positionally in declared order, missing
// ones fall back to declared defaults. A default may reference parameters
// declared before it, so values are bound first and the body is rewritten in
// one simultaneous pass, never one parameter at a time.
func (r *Resolver) bind(def Definition, args []string, content, file string, site int, diags *[]Diagnostic) string {
	if len(args) > len(def.Params) {
		*diags = append(*diags, warningAt(content, file, site,
			"mixin %q invoked with %d arguments, declared with %d, extras ignored", def.Name, len(args), len(def.Params)))
	}

	bound := make(map[string]string, len(def.Params))
	for k, param := range def.Params {
		switch {
		case k < len(args):
			bound[param.Name] = args[k]
		case param.HasDefault:
			// bound holds only parameters declared earlier at this point
			bound[param.Name] = substituteTokens(param.Default, bound)
		default:
			*diags = append(*diags, errorAt(content, file, site,
				"mixin %q requires argument %s and no default is declared, substituting empty value", def.Name, param.Name))
			bound[param.Name] = ""
		}
	}
	return substituteTokens(def.Body, bound)
}

// parseArguments splits an invocation argument list on top level commas,
// exactly like declaration parameter parsing does.
func parseArguments(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	parts := splitTopLevel(list, ',')
	args := make([]string, 0, len(parts))
	for _, part := range parts {
		args = append(args, strings.TrimSpace(part))
	}
	return args
}

// neutralizeComment makes text safe to embed into a block comment.
func neutralizeComment(s string) string {
	return strings.ReplaceAll(s, "*/", "* /")
}
