package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-yaml"

	"github.com/concourse/ond-art-validator/invariant"
)

// Config carries every knob the validator reads. It is constructed once at
// process start and passed explicitly into components; nothing reads ambient
// process state directly.
type Config struct {
	// SchemaPath locates the JSON Schema document reports must conform to.
	SchemaPath string `yaml:"schema_path" env:"SCHEMA_PATH"`
	// ReportGlob discovers the report documents to validate.
	ReportGlob string `yaml:"report_glob" env:"REPORT_GLOB"`
	// Forbid lists baseline.classification values that are always errors.
	Forbid []string `yaml:"forbid_classification" env:"FORBID_CLASSIFICATION" envSeparator:","`
	// DefaultProfile is injected into spec.profile when a report omits it.
	DefaultProfile string `yaml:"default_profile" env:"DEFAULT_PROFILE"`
	// StrictClassification enables classification-vs-threshold consistency
	// checking. Env flag: "1" = on.
	StrictClassification bool `yaml:"strict_classification" env:"-"`
	// RequireDisclaimer escalates a missing disclaimer to an error.
	// Env flag: "1" = on.
	RequireDisclaimer bool `yaml:"require_disclaimer" env:"-"`
	// SummaryPath is the markdown run-summary sink; empty disables it.
	SummaryPath string `yaml:"summary_path" env:"GITHUB_STEP_SUMMARY"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		SchemaPath:     "schemas/ond-art-report-0.1.schema.json",
		ReportGlob:     "reports/**/*.json",
		Forbid:         invariant.DefaultForbidden(),
		DefaultProfile: "core",
	}
}

// Load builds the effective configuration: defaults, overlaid by the YAML
// file at path (optional; empty path skips the file layer), overlaid by the
// process environment.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	return Parse(data, environFromOS())
}

// fileConfig mirrors Config with pointer fields so the overlay can tell
// "set to zero value" apart from "not set".
type fileConfig struct {
	SchemaPath           *string  `yaml:"schema_path"`
	ReportGlob           *string  `yaml:"report_glob"`
	Forbid               []string `yaml:"forbid_classification"`
	DefaultProfile       *string  `yaml:"default_profile"`
	StrictClassification *bool    `yaml:"strict_classification"`
	RequireDisclaimer    *bool    `yaml:"require_disclaimer"`
	SummaryPath          *string  `yaml:"summary_path"`
}

// Parse layers YAML bytes and an environment map over the defaults. Both
// layers are optional; the environment wins.
func Parse(data []byte, environ map[string]string) (*Config, error) {
	cfg := Default()
	if environ == nil {
		// A nil Environment would make env.ParseWithOptions fall back to
		// os.Environ; a nil argument here means "no environment layer".
		environ = map[string]string{}
	}

	if len(data) > 0 {
		var parsed fileConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("parsing validator config: %w", err)
		}
		if parsed.SchemaPath != nil {
			cfg.SchemaPath = *parsed.SchemaPath
		}
		if parsed.ReportGlob != nil {
			cfg.ReportGlob = *parsed.ReportGlob
		}
		if parsed.Forbid != nil {
			cfg.Forbid = parsed.Forbid
		}
		if parsed.DefaultProfile != nil {
			cfg.DefaultProfile = *parsed.DefaultProfile
		}
		if parsed.StrictClassification != nil {
			cfg.StrictClassification = *parsed.StrictClassification
		}
		if parsed.RequireDisclaimer != nil {
			cfg.RequireDisclaimer = *parsed.RequireDisclaimer
		}
		if parsed.SummaryPath != nil {
			cfg.SummaryPath = *parsed.SummaryPath
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	// Flags accept exactly "1" as on; any other value is off, matching the
	// contract existing CI workflows rely on.
	if v, ok := environ["STRICT_CLASSIFICATION"]; ok {
		cfg.StrictClassification = strings.TrimSpace(v) == "1"
	}
	if v, ok := environ["REQUIRE_DISCLAIMER"]; ok {
		cfg.RequireDisclaimer = strings.TrimSpace(v) == "1"
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.SchemaPath = strings.TrimSpace(c.SchemaPath)
	c.ReportGlob = strings.TrimSpace(c.ReportGlob)
	c.DefaultProfile = strings.TrimSpace(c.DefaultProfile)
	if c.DefaultProfile == "" {
		c.DefaultProfile = "core"
	}
	forbid := make([]string, 0, len(c.Forbid))
	for _, f := range c.Forbid {
		if f = strings.TrimSpace(f); f != "" {
			forbid = append(forbid, f)
		}
	}
	c.Forbid = forbid
}

func environFromOS() map[string]string {
	environ := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			environ[k] = v
		}
	}
	return environ
}
