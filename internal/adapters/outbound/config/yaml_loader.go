package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/abdidvp/storediag/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the diagnostics config looked up in the working directory.
const FileName = ".storediag.yaml"

// YAMLLoader reads .storediag.yaml.
type YAMLLoader struct {
	schema *SchemaValidator
}

// New creates a YAMLLoader with the embedded schema compiled.
func New() (*YAMLLoader, error) {
	sv, err := NewSchemaValidator()
	if err != nil {
		return nil, err
	}
	return &YAMLLoader{schema: sv}, nil
}

// Path returns where the config lives under dir.
func Path(dir string) string { return filepath.Join(dir, FileName) }

// Load reads .storediag.yaml from dir.
// Returns DefaultConfig if the file does not exist.
func (l *YAMLLoader) Load(dir string) (domain.DiagnosticsConfig, error) {
	cfg, err := l.LoadFile(Path(dir))
	if errors.Is(err, os.ErrNotExist) {
		return domain.DefaultConfig(), nil
	}
	return cfg, err
}

// LoadFile reads a config file: schema check, YAML decode, merge over defaults,
// version check and validation, in that order.
func (l *YAMLLoader) LoadFile(path string) (domain.DiagnosticsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.DiagnosticsConfig{}, err
	}
	return l.Parse(data, filepath.Base(path))
}

// Parse decodes config bytes; name is used in error messages.
func (l *YAMLLoader) Parse(data []byte, name string) (domain.DiagnosticsConfig, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.DiagnosticsConfig{}, fmt.Errorf("parsing %s: %w", name, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	if err := l.schema.Validate(raw); err != nil {
		return domain.DiagnosticsConfig{}, fmt.Errorf("invalid %s: %w", name, err)
	}

	var cfg domain.DiagnosticsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.DiagnosticsConfig{}, fmt.Errorf("parsing %s: %w", name, err)
	}

	cfg = mergeConfig(domain.DefaultConfig(), cfg)

	if err := checkVersion(cfg.Version); err != nil {
		return domain.DiagnosticsConfig{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return domain.DiagnosticsConfig{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return cfg, nil
}

// Write stores cfg as .storediag.yaml under dir, refusing to overwrite unless force.
func Write(dir string, cfg domain.DiagnosticsConfig, force bool) (string, error) {
	path := Path(dir)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%s already exists (use --force to overwrite)", FileName)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", FileName, err)
	}
	return path, nil
}

func checkVersion(v string) error {
	c, err := semver.NewConstraint(domain.SupportedConfigVersion)
	if err != nil {
		return err
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return &domain.ConfigError{Field: "version", Reason: fmt.Sprintf("%q is not a semantic version", v)}
	}
	if !c.Check(ver) {
		return &domain.ConfigError{
			Field:  "version",
			Reason: fmt.Sprintf("%s is not supported (want %s)", ver, domain.SupportedConfigVersion),
		}
	}
	return nil
}

// mergeConfig overlays explicit sections on top of defaults.
// An explicit section replaces the default one entirely.
func mergeConfig(base, override domain.DiagnosticsConfig) domain.DiagnosticsConfig {
	result := base

	if override.Version != "" {
		result.Version = override.Version
	}
	if override.ScoreRange != (domain.ScoreRange{}) {
		result.ScoreRange = override.ScoreRange
	}
	if len(override.GradeBands) > 0 {
		result.GradeBands = override.GradeBands
	}
	if len(override.Weights) > 0 {
		result.Weights = override.Weights
	}
	if override.Tiebreak != "" {
		result.Tiebreak = override.Tiebreak
	}

	// A replaced rule table keeps only the default templates and actions
	// that still name one of its rules.
	if len(override.Rules) > 0 {
		result.Rules = override.Rules
		result.Explanations = keepRules(base.Explanations, override.Rules)
		result.Actions = keepRules(base.Actions, override.Rules)
	}
	if len(override.Explanations) > 0 {
		result.Explanations = override.Explanations
	}
	if len(override.Actions) > 0 {
		result.Actions = override.Actions
	}

	return result
}

func keepRules[V any](m map[string]V, rules []domain.DiagnosticRule) map[string]V {
	out := make(map[string]V)
	for _, r := range rules {
		if v, ok := m[r.Name]; ok {
			out[r.Name] = v
		}
	}
	return out
}
