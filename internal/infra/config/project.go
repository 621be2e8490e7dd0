// Where: cli/internal/infra/config/project.go
// What: fnsdk.yaml load/save.
// Why: Keep generation and deploy defaults next to the project instead of in build scripts.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/poruru/fnsdk/cli/internal/meta"
	"gopkg.in/yaml.v3"
)

// ProjectConfig represents fnsdk.yaml.
type ProjectConfig struct {
	Version  int            `yaml:"version"`
	Generate GenerateConfig `yaml:"generate,omitempty"`
	Deploy   DeployConfig   `yaml:"deploy,omitempty"`
}

// GenerateConfig holds defaults for function.json generation.
type GenerateConfig struct {
	FunctionsInDependencies bool     `yaml:"functions_in_dependencies,omitempty"`
	ExcludedFunctions       []string `yaml:"excluded_functions,omitempty"`
	SkipExisting            bool     `yaml:"skip_existing,omitempty"`
	GenerateHostJSON        bool     `yaml:"generate_host_json,omitempty"`
	ValidateSchema          *bool    `yaml:"validate_schema,omitempty"`
}

// ShouldValidate reports whether generated documents are schema-checked; on unless disabled.
func (g GenerateConfig) ShouldValidate() bool {
	return g.ValidateSchema == nil || *g.ValidateSchema
}

// DeployConfig holds zip deploy defaults.
type DeployConfig struct {
	PublishURL       string        `yaml:"publish_url,omitempty"`
	SiteName         string        `yaml:"site_name,omitempty"`
	SCMURLTemplate   string        `yaml:"scm_url_template,omitempty"`
	UserAgentVersion string        `yaml:"user_agent_version,omitempty"`
	Archive          ArchiveConfig `yaml:"archive,omitempty"`
}

// ArchiveConfig selects an S3-compatible bucket that keeps a copy of every deployed zip.
type ArchiveConfig struct {
	Bucket   string `yaml:"bucket,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
	Region   string `yaml:"region,omitempty"`
}

// DefaultProjectConfig returns an initialized ProjectConfig with version set.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{Version: 1}
}

// ProjectConfigPath returns the config path inside a project directory.
func ProjectConfigPath(projectRoot string) string {
	if abs, err := filepath.Abs(projectRoot); err == nil {
		projectRoot = abs
	}
	return filepath.Join(projectRoot, meta.ConfigFile)
}

// LoadProjectConfig reads and parses a project configuration file. Unknown keys are rejected.
func LoadProjectConfig(path string) (ProjectConfig, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return ProjectConfig{}, fmt.Errorf("read project config: %w", err)
	}

	cfg := DefaultProjectConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(payload))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return ProjectConfig{}, fmt.Errorf("decode project config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveProjectConfig writes a ProjectConfig to the specified path.
func SaveProjectConfig(path string, cfg ProjectConfig) error {
	payload, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("encode project config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create project config dir: %w", err)
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write project config: %w", err)
	}
	return nil
}
