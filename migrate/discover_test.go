package migrate

import (
	"strings"
	"testing"
	"testing/fstest"

	"go.uber.org/zap"

	"scssmig/common"
	"scssmig/config"
)

func testTargets() *config.TargetsConfig {
	return &config.TargetsConfig{
		Primary: config.TargetConfig{Sources: []string{"styles.scss", "style.scss", "main.scss"}, Output: "styles.scss"},
		Detail:  config.TargetConfig{Sources: []string{"detail.scss", "detail-*.scss"}, Output: "detail.scss"},
		Listing: config.TargetConfig{Sources: []string{"listing.scss"}, Output: "listing.scss"},
	}
}

func TestDiscoverSources(t *testing.T) {
	fsys := fstest.MapFS{
		"styles.scss":       {Data: []byte("body { }")},
		"detail.scss":       {Data: []byte(".detail { }")},
		"detail-extra.scss": {Data: []byte(".extra { }")},
		"unrelated.scss":    {Data: []byte(".skip { }")},
		"images/logo.svg":   {Data: []byte("<svg/>")},
		"fonts/readme.txt":  {Data: []byte("skip")},
	}

	found, err := discoverSources(fsys, "ocean", testTargets(), fsSourceReader{}, zap.NewNop())
	if err != nil {
		t.Fatalf("discoverSources() error = %v", err)
	}

	primary := found[common.StylesheetKindPrimary]
	if len(primary) != 1 || primary[0].Path != "styles.scss" {
		t.Errorf("primary = %+v, want styles.scss", primary)
	}
	if primary[0].Content != "body { }" {
		t.Errorf("primary content = %q", primary[0].Content)
	}
	if primary[0].Kind != common.StylesheetKindPrimary {
		t.Errorf("primary kind = %v", primary[0].Kind)
	}

	detail := found[common.StylesheetKindDetail]
	if len(detail) != 2 {
		t.Fatalf("detail = %+v, want two sources", detail)
	}
	// deterministic order, independent of pattern order
	if detail[0].Path != "detail-extra.scss" || detail[1].Path != "detail.scss" {
		t.Errorf("detail order = %q, %q", detail[0].Path, detail[1].Path)
	}

	if len(found[common.StylesheetKindListing]) != 0 {
		t.Errorf("listing = %+v, want none", found[common.StylesheetKindListing])
	}
}

func TestDiscoverSources_PrimaryMandatory(t *testing.T) {
	fsys := fstest.MapFS{
		"detail.scss": {Data: []byte(".detail { }")},
	}
	_, err := discoverSources(fsys, "ocean", testTargets(), fsSourceReader{}, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for theme without a primary stylesheet")
	}
	if !strings.Contains(err.Error(), "primary") {
		t.Errorf("error does not mention the missing primary: %v", err)
	}
}

func TestDiscoverSources_OverlappingPatternsDeduplicate(t *testing.T) {
	fsys := fstest.MapFS{
		"detail.scss": {Data: []byte(".detail { }")},
		"styles.scss": {Data: []byte("body { }")},
	}
	targets := testTargets()
	// detail.scss matches both the literal name and the glob
	targets.Detail.Sources = []string{"detail.scss", "detail*.scss"}

	found, err := discoverSources(fsys, "ocean", targets, fsSourceReader{}, zap.NewNop())
	if err != nil {
		t.Fatalf("discoverSources() error = %v", err)
	}
	if len(found[common.StylesheetKindDetail]) != 1 {
		t.Errorf("detail = %+v, want single deduplicated source", found[common.StylesheetKindDetail])
	}
}

func TestDiscoverSources_ForcedDecoding(t *testing.T) {
	fsys := fstest.MapFS{
		"styles.scss": {Data: []byte("body { }")},
	}
	called := false
	reader := fsSourceReader{decode: func(b []byte) ([]byte, error) {
		called = true
		return b, nil
	}}
	if _, err := discoverSources(fsys, "ocean", testTargets(), reader, zap.NewNop()); err != nil {
		t.Fatalf("discoverSources() error = %v", err)
	}
	if !called {
		t.Error("forced decoder was not applied to source content")
	}
}
