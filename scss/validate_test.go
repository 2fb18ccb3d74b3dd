package scss

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantOK  bool
	}{
		{
			name:    "well formed document",
			content: "body {\n  color: red;\n}\n.detail {\n  margin: 0;\n}\n",
			wantOK:  true,
		},
		{
			name:    "empty document",
			content: "",
			wantOK:  true,
		},
		{
			name:    "nested blocks",
			content: "@media (max-width: 600px) {\n  body { width: 50%; }\n}\n",
			wantOK:  true,
		},
		{
			name:    "braces inside strings and comments do not count",
			content: "/* { */\nbody { content: \"}\"; }\n",
			wantOK:  true,
		},
		{
			name:    "unclosed block",
			content: "body {\n  color: red;\n",
			wantOK:  false,
		},
		{
			name:    "stray closing brace",
			content: "body { color: red; }\n}\n",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := Validate(tt.content, "out.scss", zap.NewNop())
			if tt.wantOK && len(diags) != 0 {
				t.Errorf("Validate() = %+v, want no diagnostics", diags)
			}
			if !tt.wantOK {
				if countSeverity(diags, SeverityError) == 0 {
					t.Errorf("Validate() = %+v, want an error diagnostic", diags)
				}
				for _, d := range diags {
					if d.File != "out.scss" {
						t.Errorf("diagnostic file = %q, want out.scss", d.File)
					}
				}
			}
		})
	}
}

func TestValidate_ReportsLine(t *testing.T) {
	content := "body { color: red; }\n.detail { margin: 0;\n"
	diags := Validate(content, "out.scss", zap.NewNop())
	if countSeverity(diags, SeverityError) == 0 {
		t.Fatalf("expected an error diagnostic, got %+v", diags)
	}
	found := false
	for _, d := range diags {
		if d.Line == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("no diagnostic points at line 2: %+v", diags)
	}
}

func TestCheckBraceBalance_Excerpt(t *testing.T) {
	content := "body { color: red; }\nbroken { padding: 0;"
	d := checkBraceBalance(content, "out.scss")
	if d == nil {
		t.Fatal("expected a diagnostic for unclosed block")
	}
	if !strings.Contains(d.Excerpt, "broken") {
		t.Errorf("excerpt = %q, want the offending line", d.Excerpt)
	}
}
