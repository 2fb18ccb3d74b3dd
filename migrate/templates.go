package migrate

import (
	"bytes"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"scssmig/config"
)

// Values holds the variables available for output name template expansion.
type Values struct {
	Theme  string // theme directory base name
	Kind   string // primary, detail or listing
	Source string // first source file feeding the target
}

// expandTemplate expands a user supplied naming template. Unknown fields are
// an error rather than silent empty strings, a mistyped template should not
// quietly produce files named after nothing.
func expandTemplate(field config.TemplateFieldName, text string, values Values) (string, error) {
	tmpl, err := template.New(string(field)).Funcs(sprig.FuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("unable to parse template %q: %w", text, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, values); err != nil {
		return "", fmt.Errorf("unable to expand template %q: %w", text, err)
	}
	return buf.String(), nil
}
