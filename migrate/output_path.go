package migrate

import (
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"scssmig/common"
	"scssmig/config"
	"scssmig/state"
)

// buildTargetName returns the output file name for one target. The
// configured per-target name is the default, a user defined template
// overrides it. Falls back to the target default when template expansion
// fails so a bad template degrades instead of aborting the theme.
func buildTargetName(theme string, kind common.StylesheetKind, source string, target *config.TargetConfig, env *state.LocalEnv) string {
	name := target.Output
	if name == "" {
		name = kind.TargetName()
	}

	if tmpl := env.Cfg.Document.OutputNameTemplate; tmpl != "" {
		expanded, err := expandTemplate(config.OutputNameTemplateFieldName, tmpl, Values{
			Theme:  theme,
			Kind:   kind.String(),
			Source: source,
		})
		if err != nil {
			env.Log.Warn("Unable to prepare output filename, using default", zap.Error(err))
		} else if expanded != "" {
			name = expanded
		}
	}

	if env.Cfg.Document.FileNameTransliterate {
		ext := filepath.Ext(name)
		name = slug.Make(strings.TrimSuffix(name, ext)) + ext
	}
	return config.CleanFileName(name)
}
