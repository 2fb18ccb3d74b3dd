package migrate

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// writeFileAtomic persists validated content via temp-file-then-rename in the
// destination directory. On any failure the previously existing target file
// is left untouched and no partially written file stays visible.
func writeFileAtomic(path string, data []byte, overwrite bool, log *zap.Logger) error {
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return fmt.Errorf("target file already exists: %s", path)
		}
		log.Warn("Overwriting existing file", zap.String("file", path))
	} else if !os.IsNotExist(err) {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("unable to create temporary file in %q: %w", dir, err)
	}
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("unable to write %q: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("unable to sync %q: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("unable to close %q: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("unable to set permissions on %q: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("unable to move %q into place: %w", tmp.Name(), err)
	}
	tmp = nil
	return nil
}
