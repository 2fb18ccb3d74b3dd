package scss

import (
	"strings"
	"testing"
)

func TestStripImports(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		want        string
		wantRemoved int
	}{
		{
			name:        "classic import",
			content:     "@import 'shared/mixins';\nbody { color: red; }",
			want:        "body { color: red; }",
			wantRemoved: 1,
		},
		{
			name:        "use and forward",
			content:     "@use 'sass:math';\n@forward 'src/list';\na { b: c; }",
			want:        "a { b: c; }",
			wantRemoved: 2,
		},
		{
			name:        "multiple targets in one statement",
			content:     "@import 'a',\n  'b',\n  'c';\nbody { }",
			want:        "body { }",
			wantRemoved: 1,
		},
		{
			name:        "import between rules keeps surrounding text",
			content:     "a { x: 1; }\n@import \"legacy\";\nb { y: 2; }",
			want:        "a { x: 1; }\nb { y: 2; }",
			wantRemoved: 1,
		},
		{
			name:        "directive inside comment survives",
			content:     "/* @import 'kept'; */\nbody { }",
			want:        "/* @import 'kept'; */\nbody { }",
			wantRemoved: 0,
		},
		{
			name:        "directive inside string survives",
			content:     "content: \"@import 'kept';\";\n",
			want:        "content: \"@import 'kept';\";\n",
			wantRemoved: 0,
		},
		{
			name:        "longer at-word is not a directive",
			content:     "@importantly { a: 1; }",
			want:        "@importantly { a: 1; }",
			wantRemoved: 0,
		},
		{
			name:        "nothing to strip",
			content:     "body { color: red; }",
			want:        "body { color: red; }",
			wantRemoved: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, removed := StripImports(tt.content)
			if got != tt.want {
				t.Errorf("StripImports() = %q, want %q", got, tt.want)
			}
			if removed != tt.wantRemoved {
				t.Errorf("removed = %d, want %d", removed, tt.wantRemoved)
			}
		})
	}
}

func TestStripImports_NoDirectivesLeft(t *testing.T) {
	content := `@use 'sass:color';
@import 'theme/base';
body { color: red; }
@forward 'lib';
`
	got, removed := StripImports(content)
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
	for _, d := range []string{"@import", "@use", "@forward"} {
		if strings.Contains(got, d) {
			t.Errorf("directive %s survived:\n%s", d, got)
		}
	}
}
