package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	fixzip "github.com/hidez8891/zip"
)

// Update rewrites the bundle replacing (or adding) the entries named in
// replace with new content. The bundle is rebuilt into a temporary file next
// to the original and renamed into place, so a failure never leaves the
// original half rewritten.
func Update(bundle string, replace map[string][]byte) error {
	if len(replace) == 0 {
		return nil
	}

	dir := filepath.Dir(bundle)
	out, err := os.CreateTemp(dir, "."+filepath.Base(bundle)+".*.tmp")
	if err != nil {
		return fmt.Errorf("unable to create temporary bundle in %q: %w", dir, err)
	}
	defer func() {
		if out != nil {
			out.Close()
			os.Remove(out.Name())
		}
	}()

	r, err := fixzip.OpenReader(bundle)
	if err != nil {
		return fmt.Errorf("unable to read bundle (%s): %w", bundle, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)

	written := make(map[string]bool, len(replace))
	for _, file := range r.File {
		if data, ok := replace[file.FileHeader.Name]; ok {
			ew, err := w.Create(file.FileHeader.Name)
			if err != nil {
				return fmt.Errorf("unable to replace bundle entry %q: %w", file.FileHeader.Name, err)
			}
			if _, err := ew.Write(data); err != nil {
				return fmt.Errorf("unable to write bundle entry %q: %w", file.FileHeader.Name, err)
			}
			written[file.FileHeader.Name] = true
			continue
		}
		// unset data descriptor flag so entry can be copied as is
		file.Flags &= ^fixzip.FlagDataDescriptor
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to copy bundle entry %q: %w", file.FileHeader.Name, err)
		}
	}
	added := make([]string, 0, len(replace))
	for name := range replace {
		if !written[name] {
			added = append(added, name)
		}
	}
	slices.Sort(added)
	for _, name := range added {
		data := replace[name]
		ew, err := w.Create(name)
		if err != nil {
			return fmt.Errorf("unable to add bundle entry %q: %w", name, err)
		}
		if _, err := ew.Write(data); err != nil {
			return fmt.Errorf("unable to write bundle entry %q: %w", name, err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("unable to finalize bundle: %w", err)
	}
	if err := out.Sync(); err != nil {
		return fmt.Errorf("unable to sync bundle: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("unable to close bundle: %w", err)
	}
	if err := os.Rename(out.Name(), bundle); err != nil {
		return fmt.Errorf("unable to move bundle into place: %w", err)
	}
	out = nil
	return nil
}
