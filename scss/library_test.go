package scss

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func writeLibraryFile(t *testing.T, root, name string, data []byte) {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create library dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write library file: %v", err)
	}
}

func TestLoadLibrary(t *testing.T) {
	root := t.TempDir()
	writeLibraryFile(t, root, "buttons.scss", []byte("@mixin button { border: 0; }"))
	writeLibraryFile(t, root, "layout/grid.scss", []byte("@mixin grid { display: grid; }"))
	writeLibraryFile(t, root, "legacy.css", []byte(".legacy { color: red; }"))
	writeLibraryFile(t, root, "notes.txt", []byte("not a stylesheet"))
	// png magic bytes with a stylesheet extension
	writeLibraryFile(t, root, "sprite.scss", []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0})

	lib, err := LoadLibrary(root, nil, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadLibrary() error = %v", err)
	}

	want := []string{"buttons.scss", "layout/grid.scss", "legacy.css"}
	if len(lib.Files) != len(want) {
		t.Fatalf("loaded %d files, want %d: %+v", len(lib.Files), len(want), lib.Files)
	}
	for i, path := range want {
		if lib.Files[i].Path != path {
			t.Errorf("file[%d] = %q, want %q", i, lib.Files[i].Path, path)
		}
	}
	// the mislabeled binary must show up as a warning, not kill the run
	if len(lib.Diagnostics) != 1 || lib.Diagnostics[0].Severity != SeverityWarning {
		t.Errorf("Diagnostics = %+v, want one warning for the binary file", lib.Diagnostics)
	}
}

func TestLoadLibrary_ScanOrderIsDeterministic(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"m10.scss", "m2.scss", "m1.scss"} {
		writeLibraryFile(t, root, name, []byte("a {}"))
	}

	lib, err := LoadLibrary(root, nil, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadLibrary() error = %v", err)
	}

	// natural order, m10 sorts after m2
	want := []string{"m1.scss", "m2.scss", "m10.scss"}
	for i, path := range want {
		if lib.Files[i].Path != path {
			t.Errorf("file[%d] = %q, want %q", i, lib.Files[i].Path, path)
		}
	}
}

func TestLoadLibrary_BadRoot(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		if _, err := LoadLibrary(filepath.Join(t.TempDir(), "missing"), nil, nil, zap.NewNop()); err == nil {
			t.Error("expected error for missing library root")
		}
	})

	t.Run("root is a file", func(t *testing.T) {
		root := t.TempDir()
		writeLibraryFile(t, root, "file.scss", []byte("a {}"))
		if _, err := LoadLibrary(filepath.Join(root, "file.scss"), nil, nil, zap.NewNop()); err == nil {
			t.Error("expected error for non-directory library root")
		}
	})
}

func TestLoadLibrary_ExtensionFilter(t *testing.T) {
	root := t.TempDir()
	writeLibraryFile(t, root, "keep.sass", []byte("a {}"))
	writeLibraryFile(t, root, "skip.scss", []byte("b {}"))

	lib, err := LoadLibrary(root, []string{".sass"}, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadLibrary() error = %v", err)
	}
	if len(lib.Files) != 1 || lib.Files[0].Path != "keep.sass" {
		t.Errorf("Files = %+v, want only keep.sass", lib.Files)
	}
}

func TestBuildRegistry(t *testing.T) {
	root := t.TempDir()
	writeLibraryFile(t, root, "a.scss", []byte("@mixin one { a: 1; }\n@mixin shared { from: a; }"))
	writeLibraryFile(t, root, "b.scss", []byte("@mixin two { b: 2; }\n@mixin shared { from: b; }"))

	lib, err := LoadLibrary(root, nil, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadLibrary() error = %v", err)
	}
	reg, diags := BuildRegistry(lib, zap.NewNop())

	if reg.Len() != 3 {
		t.Errorf("Len() = %d, want 3", reg.Len())
	}

	// collision resolves to the later file in scan order and is reported
	def, ok := reg.Lookup("shared")
	if !ok {
		t.Fatal("mixin shared not registered")
	}
	if def.File != "b.scss" {
		t.Errorf("shared kept from %q, want b.scss (last scanned wins)", def.File)
	}
	if len(diags) != 1 || diags[0].Severity != SeverityWarning {
		t.Fatalf("diags = %+v, want one collision warning", diags)
	}
	for _, name := range []string{"a.scss", "b.scss"} {
		if !strings.Contains(diags[0].Message, name) {
			t.Errorf("collision warning does not name %s: %s", name, diags[0].Message)
		}
	}

	if _, ok := reg.Lookup("missing"); ok {
		t.Error("Lookup() found an unregistered mixin")
	}

	names := reg.Names()
	want := []string{"one", "shared", "two"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
