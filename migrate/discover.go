package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/maruel/natural"
	"go.uber.org/zap"

	"scssmig/common"
	"scssmig/config"
	"scssmig/scss"
)

// discoverSources locates the legacy input files of one theme. Patterns come
// from the targets configuration and are matched against file names in the
// theme directory. The primary stylesheet is mandatory, detail and listing
// sources are optional.
func discoverSources(fsys fs.FS, themeName string, targets *config.TargetsConfig, env sourceReader, log *zap.Logger) (map[common.StylesheetKind][]SourceDocument, error) {
	found := make(map[common.StylesheetKind][]SourceDocument)

	for kind, target := range map[common.StylesheetKind]*config.TargetConfig{
		common.StylesheetKindPrimary: &targets.Primary,
		common.StylesheetKindDetail:  &targets.Detail,
		common.StylesheetKindListing: &targets.Listing,
	} {
		var names []string
		for _, pattern := range target.Sources {
			matches, err := fs.Glob(fsys, pattern)
			if err != nil {
				return nil, fmt.Errorf("bad source pattern %q: %w", pattern, err)
			}
			names = append(names, matches...)
		}
		slices.SortFunc(names, func(a, b string) int {
			if a == b {
				return 0
			}
			if natural.Less(a, b) {
				return -1
			}
			return 1
		})
		names = slices.Compact(names)

		for _, name := range names {
			content, err := env.readSource(fsys, name)
			if err != nil {
				return nil, fmt.Errorf("unable to read source %q: %w", name, err)
			}
			found[kind] = append(found[kind], SourceDocument{
				Path:    name,
				Content: content,
				Kind:    kind,
			})
			log.Debug("Discovered source", zap.String("theme", themeName), zap.Stringer("kind", kind), zap.String("file", name))
		}
	}

	if len(found[common.StylesheetKindPrimary]) == 0 {
		return nil, fmt.Errorf("theme %q has no primary stylesheet (looked for %v)", themeName, targets.Primary.Sources)
	}
	return found, nil
}

// sourceReader reads one source file, decoding a legacy code page when one is
// forced for the run.
type sourceReader interface {
	readSource(fsys fs.FS, name string) (string, error)
}

type fsSourceReader struct {
	decode func([]byte) ([]byte, error)
}

func (r fsSourceReader) readSource(fsys fs.FS, name string) (string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", err
	}
	if r.decode != nil {
		decoded, err := r.decode(data)
		if err != nil {
			return "", fmt.Errorf("unable to decode %q: %w", name, err)
		}
		data = decoded
	}
	return string(data), nil
}

// themeFS opens a theme directory as an fs.FS rooted at it.
func themeFS(dir string) (fs.FS, string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, "", fmt.Errorf("unable to access theme directory: %w", err)
	}
	if !info.IsDir() {
		return nil, "", fmt.Errorf("theme path is not a directory: %s", dir)
	}
	return os.DirFS(abs), filepath.Base(abs), nil
}

// usedRules converts the configured rewrite table into engine rules.
func usedRules(rules []config.RewriteRule) []scss.RewriteRule {
	out := make([]scss.RewriteRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, scss.RewriteRule{From: r.From, To: r.To})
	}
	return out
}
