package migrate

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"scssmig/archive"
	"scssmig/common"
	"scssmig/state"
)

// processBundle migrates a theme shipped as a zip bundle. Sources are read
// straight from the archive and validated targets are written back into it in
// one atomic rewrite at the end, so a bundle is never left with a subset of
// its targets updated by a crashed run.
func processBundle(bundle string, pipeline *Pipeline, env *state.LocalEnv, log *zap.Logger) (docs []*TransformedDocument, err error) {
	theme := strings.TrimSuffix(filepath.Base(bundle), filepath.Ext(bundle))
	log = log.With(zap.String("bundle", theme))

	zr, er := zip.OpenReader(bundle)
	if er != nil {
		return nil, fmt.Errorf("unable to open theme bundle: %w", er)
	}
	defer zr.Close()

	// inventory goes into the debug report before anything is modified
	storeBundleInventory(bundle, theme, env)

	reader := fsSourceReader{}
	if env.CodePage != nil {
		reader.decode = env.CodePage.NewDecoder().Bytes
	}
	sources, er := discoverSources(&zr.Reader, theme, &env.Cfg.Targets, reader, log)
	if er != nil {
		return nil, er
	}

	existing := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		existing[f.FileHeader.Name] = f
	}

	replace := make(map[string][]byte)
	for _, kind := range []common.StylesheetKind{common.StylesheetKindPrimary, common.StylesheetKindDetail, common.StylesheetKindListing} {
		srcs := sources[kind]
		if len(srcs) == 0 {
			log.Debug("No sources for target, skipping", zap.Stringer("kind", kind))
			continue
		}

		target := targetFor(&env.Cfg.Targets, kind)
		name := buildTargetName(theme, kind, srcs[0].Path, target, env)

		storeSources(theme, srcs, env)

		doc, er := pipeline.Transform(srcs, name)
		if doc != nil {
			docs = append(docs, doc)
			logDiagnostics(doc.Diagnostics, log)
			env.Rpt.StoreVersionedData(fmt.Sprintf("themes/%s/out/%s", theme, name), []byte(doc.Content))
		}
		if er != nil {
			if errors.Is(er, ErrValidationFailed) {
				err = multierr.Append(err, fmt.Errorf("target %q: %w", name, er))
				continue
			}
			return docs, multierr.Append(err, er)
		}

		if old := existing[name]; old != nil {
			if !env.Overwrite {
				err = multierr.Append(err, fmt.Errorf("target %q already exists in bundle", name))
				continue
			}
			storeReplacedEntry(theme, old, env)
		}
		replace[name] = []byte(doc.Content)
		log.Info("Target prepared", zap.Stringer("kind", kind), zap.String("entry", name))
	}

	if len(replace) == 0 {
		return docs, err
	}
	if er := archive.Update(bundle, replace); er != nil {
		return docs, multierr.Append(err, fmt.Errorf("unable to update bundle: %w", er))
	}
	log.Info("Bundle updated", zap.String("file", bundle), zap.Int("targets", len(replace)))
	return docs, err
}

// storeReplacedEntry keeps the previous content of a bundle entry in the
// debug report before the rewrite replaces it.
func storeReplacedEntry(theme string, f *zip.File, env *state.LocalEnv) {
	if env.Rpt == nil {
		return
	}
	rc, err := f.Open()
	if err != nil {
		return
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return
	}
	env.Rpt.StoreVersionedData(fmt.Sprintf("themes/%s/backup/%s", theme, f.FileHeader.Name), data)
}

func storeBundleInventory(bundle, theme string, env *state.LocalEnv) {
	if env.Rpt == nil {
		return
	}
	var b strings.Builder
	_ = archive.Walk(bundle, nil, func(_ string, f *zip.File) error {
		b.WriteString(f.FileHeader.Name)
		b.WriteByte('\n')
		return nil
	})
	env.Rpt.StoreVersionedData(fmt.Sprintf("themes/%s/bundle-inventory.txt", theme), []byte(b.String()))
}
