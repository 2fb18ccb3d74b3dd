package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	// LibraryConfig locates the shared mixin library every theme draws from.
	LibraryConfig struct {
		Path           string   `yaml:"path" sanitize:"path_clean"`
		Extensions     []string `yaml:"extensions" validate:"dive,startswith=."`
		SourceEncoding string   `yaml:"source_encoding,omitempty"`
	}

	// EngineConfig carries transformation knobs.
	EngineConfig struct {
		MaxIncludeDepth int `yaml:"max_include_depth" validate:"min=1,max=100"`
	}

	// RewriteRule replaces one legacy token with its target platform value.
	RewriteRule struct {
		From string `yaml:"from" validate:"required"`
		To   string `yaml:"to"`
	}

	// RewriteConfig is the fixed substitution table applied after include
	// resolution. Patterns must not overlap, the engine rejects the table
	// otherwise.
	RewriteConfig struct {
		Variables  []RewriteRule `yaml:"variables"`
		AssetPaths []RewriteRule `yaml:"asset_paths"`
	}

	// TargetConfig describes one output file: which source files feed it and
	// what it is called. Several sources are merged into one target.
	TargetConfig struct {
		Sources []string `yaml:"sources" validate:"dive,required"`
		Output  string   `yaml:"output" validate:"required"`
	}

	// TargetsConfig holds the three outputs every migrated theme gets.
	TargetsConfig struct {
		Primary TargetConfig `yaml:"primary"`
		Detail  TargetConfig `yaml:"detail"`
		Listing TargetConfig `yaml:"listing"`
	}

	DocumentConfig struct {
		OutputNameTemplate    string `yaml:"output_name_template"`
		FileNameTransliterate bool   `yaml:"file_name_transliterate"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Library   LibraryConfig  `yaml:"library"`
		Engine    EngineConfig   `yaml:"engine"`
		Rewrite   RewriteConfig  `yaml:"rewrite"`
		Targets   TargetsConfig  `yaml:"targets"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
