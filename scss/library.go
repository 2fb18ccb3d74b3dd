// Package scss implements the transformation engine that turns legacy,
// library-dependent stylesheets into self-contained ones: shared mixin
// library loading, mixin registry construction, include expansion, variable
// and asset path rewriting, import stripping and final validation.
package scss

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/h2non/filetype"
	"github.com/maruel/natural"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
)

// LibraryFile is one stylesheet blob read from the shared mixin library.
type LibraryFile struct {
	Path string // slash separated, relative to the library root
	Data string
}

// Library is the raw content of the shared mixin library tree. Files are kept
// in natural sort order of their paths, which fixes the scan order and with
// it the collision precedence of the registry built from them.
type Library struct {
	Root        string
	Files       []LibraryFile
	Diagnostics []Diagnostic
}

// LoadLibrary reads every stylesheet file under root, recursing into
// subdirectories. An unreadable file produces a Warning and does not fail the
// run. Binary files that happen to live in the tree (editor leftovers, images
// next to grouped mixin files) are detected by magic bytes and skipped.
// When enc is not nil, file content is decoded from that legacy code page.
func LoadLibrary(root string, extensions []string, enc encoding.Encoding, log *zap.Logger) (*Library, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("scss-library")

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("unable to access mixin library: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("mixin library path is not a directory: %s", root)
	}
	if len(extensions) == 0 {
		extensions = []string{".scss", ".css"}
	}

	lib := &Library{Root: root}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			lib.Diagnostics = append(lib.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("unable to access library path: %v", err),
				File:     path,
			})
			log.Warn("Skipping library path", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !slices.Contains(extensions, strings.ToLower(filepath.Ext(path))) {
			log.Debug("Skipping file, not a stylesheet", zap.String("file", path))
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			lib.Diagnostics = append(lib.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("unable to read library file: %v", err),
				File:     path,
			})
			log.Warn("Skipping unreadable library file", zap.String("file", path), zap.Error(err))
			return nil
		}

		if t, _ := filetype.Match(data); t != filetype.Unknown {
			// magic bytes say this is a known binary format mislabeled with
			// a stylesheet extension
			lib.Diagnostics = append(lib.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("library file looks like %s, not a stylesheet", t.MIME.Value),
				File:     path,
			})
			log.Warn("Skipping binary file in library", zap.String("file", path), zap.String("type", t.MIME.Value))
			return nil
		}

		if enc != nil {
			decoded, err := enc.NewDecoder().Bytes(data)
			if err != nil {
				lib.Diagnostics = append(lib.Diagnostics, Diagnostic{
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("unable to decode library file: %v", err),
					File:     path,
				})
				log.Warn("Unable to decode library file, using raw content", zap.String("file", path), zap.Error(err))
			} else {
				data = decoded
			}
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		lib.Files = append(lib.Files, LibraryFile{
			Path: filepath.ToSlash(rel),
			Data: string(data),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to scan mixin library: %w", err)
	}

	slices.SortFunc(lib.Files, func(a, b LibraryFile) int {
		if a.Path == b.Path {
			return 0
		}
		if natural.Less(a.Path, b.Path) {
			return -1
		}
		return 1
	})

	log.Debug("Mixin library loaded", zap.String("root", root), zap.Int("files", len(lib.Files)), zap.Int("warnings", len(lib.Diagnostics)))
	return lib, nil
}
