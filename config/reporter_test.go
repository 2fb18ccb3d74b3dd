package config

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReportStoreData(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "scssmig-report-*.zip")
	if err != nil {
		t.Fatalf("unable to create report file: %v", err)
	}

	r := &Report{entries: make(map[string]entry), file: file}
	r.StoreData("themes/ocean/src/styles.scss", []byte("body { color: $brand-primary; }"))
	r.StoreData("themes/ocean/out/styles.scss", []byte("body { color: var(--color-primary); }"))

	name := r.Name()
	if err := r.Close(); err != nil {
		t.Fatalf("Report.Close() error: %v", err)
	}

	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open finalized report: %v", err)
	}
	defer zr.Close()

	found := make(map[string]bool)
	for _, f := range zr.File {
		found[f.Name] = true
	}
	for _, want := range []string{"themes/ocean/src/styles.scss", "themes/ocean/out/styles.scss"} {
		if !found[want] {
			t.Errorf("report misses entry %q, has %v", want, found)
		}
	}
}

func TestReportStoreVersionedData(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "scssmig-report-*.zip")
	if err != nil {
		t.Fatalf("unable to create report file: %v", err)
	}

	r := &Report{entries: make(map[string]entry), file: file}

	// the same theme base name may show up twice in one run, repeated names
	// must version instead of panicking
	r.StoreVersionedData("themes/ocean/out/styles.scss", []byte("first"))
	r.StoreVersionedData("themes/ocean/out/styles.scss", []byte("second"))

	name := r.Name()
	if err := r.Close(); err != nil {
		t.Fatalf("Report.Close() error: %v", err)
	}

	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open finalized report: %v", err)
	}
	defer zr.Close()

	stored := 0
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "themes/ocean/out/styles.scss") {
			stored++
		}
	}
	if stored != 2 {
		t.Errorf("expected both versions in the report, found %d", stored)
	}
}

func TestReportClose_ArchivesStoredPaths(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "scssmig-report-*.zip")
	if err != nil {
		t.Fatalf("unable to create report file: %v", err)
	}

	r := &Report{entries: make(map[string]entry), file: file}

	dir := t.TempDir()
	work := filepath.Join(dir, "library")
	if err := os.MkdirAll(work, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(work, "mixins.scss"), []byte("@mixin noop { }"), 0644); err != nil {
		t.Fatal(err)
	}
	kept := filepath.Join(dir, "final.log")
	if err := os.WriteFile(kept, []byte("log line\n"), 0644); err != nil {
		t.Fatal(err)
	}

	r.Store("library", work)
	r.Store("final.log", kept)

	name := r.Name()
	if err := r.Close(); err != nil {
		t.Fatalf("Report.Close() error: %v", err)
	}

	// Store references paths in place (live log files among them), closing
	// the report must not touch them
	if _, err := os.Stat(work); err != nil {
		t.Errorf("stored directory was removed: %v", err)
	}
	if _, err := os.Stat(kept); err != nil {
		t.Errorf("stored file was removed: %v", err)
	}

	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open finalized report: %v", err)
	}
	defer zr.Close()

	found := make(map[string]bool)
	for _, f := range zr.File {
		found[f.Name] = true
	}
	for _, want := range []string{"MANIFEST", "library/mixins.scss", "final.log"} {
		if !found[want] {
			t.Errorf("report misses entry %q, has %v", want, found)
		}
	}
}

func TestReport_NilSafe(t *testing.T) {
	var r *Report
	r.Store("name", "path")
	r.StoreData("name", []byte("data"))
	r.StoreVersionedData("name", []byte("data"))
	if err := r.StoreCopy("name", "path"); err != nil {
		t.Errorf("StoreCopy on nil report: %v", err)
	}
	if n := r.Name(); n != "" {
		t.Errorf("Name() on nil report = %q", n)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report: %v", err)
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file: %v", err)
	}
}
