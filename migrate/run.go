package migrate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"scssmig/common"
	"scssmig/config"
	"scssmig/scss"
	"scssmig/state"
)

// Run is the migrate subcommand action. It builds the mixin registry once and
// then processes every theme argument independently: a failed theme does not
// stop the remaining ones.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("migrate")

	if cmd.Args().Len() == 0 {
		return errors.New("no theme directories have been specified")
	}

	env.Overwrite = cmd.Bool("overwrite")
	env.Bundle = cmd.Bool("bundle")

	// Legacy sources may use an archaic code page, conversion is forced for
	// the whole run when requested.
	if cp := cmd.String("force-cp"); len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully decoding all legacy stylesheets", zap.String("charset", n))
		}
	}

	libPath := cmd.String("library")
	if len(libPath) == 0 {
		libPath = env.Cfg.Library.Path
	}
	if len(libPath) == 0 {
		return errors.New("shared mixin library path is not configured (use --library or library.path)")
	}

	pipeline, regDiags, err := preparePipeline(libPath, env, log)
	if err != nil {
		return err
	}
	logDiagnostics(regDiags, log)

	log.Info("Processing starting", zap.Int("themes", cmd.Args().Len()), zap.String("library", libPath), zap.String("run", env.RunID))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	for _, theme := range cmd.Args().Slice() {
		if er := ctx.Err(); er != nil {
			return multierr.Append(err, er)
		}
		var er error
		if env.Bundle || strings.EqualFold(filepath.Ext(theme), ".zip") {
			_, er = processBundle(theme, pipeline, env, log)
		} else {
			_, er = processTheme(theme, pipeline, env, log)
		}
		if er != nil {
			log.Error("Unable to process theme", zap.String("theme", theme), zap.Error(er))
			err = multierr.Append(err, fmt.Errorf("theme %q: %w", theme, er))
		}
	}
	return err
}

// preparePipeline loads the shared library, builds the registry and the
// rewriter and assembles the per run pipeline. Registry warnings are returned
// for the caller to log, a bad rewrite table is a hard error.
func preparePipeline(libPath string, env *state.LocalEnv, log *zap.Logger) (*Pipeline, []scss.Diagnostic, error) {
	enc := env.CodePage
	if enc == nil && env.Cfg.Library.SourceEncoding != "" {
		var err error
		enc, err = ianaindex.IANA.Encoding(env.Cfg.Library.SourceEncoding)
		if err != nil {
			return nil, nil, fmt.Errorf("unknown library source encoding %q: %w", env.Cfg.Library.SourceEncoding, err)
		}
	}

	lib, err := scss.LoadLibrary(libPath, env.Cfg.Library.Extensions, enc, log)
	if err != nil {
		return nil, nil, err
	}
	storeLibraryInventory(lib, env)

	reg, diags := scss.BuildRegistry(lib, log)
	diags = append(diags, lib.Diagnostics...)
	log.Info("Mixin registry ready", zap.Int("files", len(lib.Files)), zap.Int("mixins", reg.Len()))

	rw, err := scss.NewRewriter(usedRules(env.Cfg.Rewrite.Variables), usedRules(env.Cfg.Rewrite.AssetPaths), log)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid rewrite table: %w", err)
	}

	return NewPipeline(reg, rw, env.Cfg.Engine.MaxIncludeDepth, log), diags, nil
}

// processTheme migrates one theme directory. All discovered targets are
// attempted, a validation failure blocks only the target it belongs to.
func processTheme(dir string, pipeline *Pipeline, env *state.LocalEnv, log *zap.Logger) (docs []*TransformedDocument, err error) {
	fsys, theme, er := themeFS(dir)
	if er != nil {
		return nil, er
	}
	log = log.With(zap.String("theme", theme))

	reader := fsSourceReader{}
	if env.CodePage != nil {
		reader.decode = env.CodePage.NewDecoder().Bytes
	}
	sources, er := discoverSources(fsys, theme, &env.Cfg.Targets, reader, log)
	if er != nil {
		return nil, er
	}

	for _, kind := range []common.StylesheetKind{common.StylesheetKindPrimary, common.StylesheetKindDetail, common.StylesheetKindListing} {
		srcs := sources[kind]
		if len(srcs) == 0 {
			log.Debug("No sources for target, skipping", zap.Stringer("kind", kind))
			continue
		}

		target := targetFor(&env.Cfg.Targets, kind)
		name := buildTargetName(theme, kind, srcs[0].Path, target, env)
		targetPath := filepath.Join(dir, name)

		storeSources(theme, srcs, env)

		doc, er := pipeline.Transform(srcs, targetPath)
		if doc != nil {
			docs = append(docs, doc)
			logDiagnostics(doc.Diagnostics, log)
			env.Rpt.StoreVersionedData(fmt.Sprintf("themes/%s/out/%s", theme, name), []byte(doc.Content))
		}
		if er != nil {
			if errors.Is(er, ErrValidationFailed) {
				// this target stays unwritten, the rest of the theme is
				// still worth attempting
				err = multierr.Append(err, fmt.Errorf("target %q: %w", name, er))
				continue
			}
			return docs, multierr.Append(err, er)
		}

		if env.Overwrite {
			// previous content is still recoverable from the report after the
			// rename replaces it
			if _, er := os.Stat(targetPath); er == nil {
				_ = env.Rpt.StoreCopy(fmt.Sprintf("themes/%s/backup/%s", theme, name), targetPath)
			}
		}
		if er := writeFileAtomic(targetPath, []byte(doc.Content), env.Overwrite, log); er != nil {
			err = multierr.Append(err, fmt.Errorf("target %q: %w", name, er))
			continue
		}
		log.Info("Target written", zap.Stringer("kind", kind), zap.String("file", targetPath))
	}
	return docs, err
}

func targetFor(targets *config.TargetsConfig, kind common.StylesheetKind) *config.TargetConfig {
	switch kind {
	case common.StylesheetKindDetail:
		return &targets.Detail
	case common.StylesheetKindListing:
		return &targets.Listing
	default:
		return &targets.Primary
	}
}

// logDiagnostics surfaces engine diagnostics through the run log without
// dropping them from the documents they belong to.
func logDiagnostics(diags []scss.Diagnostic, log *zap.Logger) {
	for _, d := range diags {
		fields := []zap.Field{zap.String("file", d.File)}
		if d.Line > 0 {
			fields = append(fields, zap.Int("line", d.Line))
		}
		if d.Excerpt != "" {
			fields = append(fields, zap.String("source", d.Excerpt))
		}
		switch d.Severity {
		case scss.SeverityError:
			log.Error(d.Message, fields...)
		default:
			log.Warn(d.Message, fields...)
		}
	}
}

// storeSources keeps the legacy inputs in the debug report. Names may repeat
// within a run, themes with the same base name or a source feeding more than
// one target, so entries are versioned instead of treated as unique.
func storeSources(theme string, srcs []SourceDocument, env *state.LocalEnv) {
	for _, src := range srcs {
		env.Rpt.StoreVersionedData(fmt.Sprintf("themes/%s/src/%s", theme, filepath.Base(src.Path)), []byte(src.Content))
	}
}

func storeLibraryInventory(lib *scss.Library, env *state.LocalEnv) {
	if env.Rpt == nil {
		return
	}
	var b strings.Builder
	for _, f := range lib.Files {
		b.WriteString(f.Path)
		b.WriteByte('\n')
	}
	env.Rpt.StoreData("library/inventory.txt", []byte(b.String()))
}
