// Package config loads csimple.yml.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arnavsurve/csimple/internal/compiler/scope"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "csimple.yml"

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config is the validated configuration.
type Config struct {
	Path       string // file it was read from; empty for defaults
	Shadowing  scope.Mode
	Extensions []string
	Color      ColorMode
}

type configFile struct {
	Shadowing  string   `yaml:"shadowing"`
	Extensions []string `yaml:"extensions"`
	Color      string   `yaml:"color"`
}

// ValidationError aggregates configuration problems.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed")
	if e.Path != "" {
		b.WriteString(" for ")
		b.WriteString(e.Path)
	}
	b.WriteString(":")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

func Default() *Config {
	return &Config{
		Shadowing:  scope.ModeFlat,
		Extensions: []string{".csim"},
		Color:      ColorAuto,
	}
}

// Load parses and validates the file at path. Keys left out keep their
// defaults; an empty file is all defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	cfg, err := Parse(file)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Path = path
			return nil, verr
		}
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes YAML configuration from r. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return raw.toConfig()
}

// LoadOrDefault loads path when given. Otherwise it uses FileName in dir
// if present, falling back to defaults.
func LoadOrDefault(path, dir string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	candidate := filepath.Join(dir, FileName)
	if _, err := os.Stat(candidate); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: stat %s: %w", candidate, err)
	}
	return Load(candidate)
}

func (raw configFile) toConfig() (*Config, error) {
	cfg := Default()
	var issues []string

	if raw.Shadowing != "" {
		mode, err := scope.ParseMode(strings.TrimSpace(raw.Shadowing))
		if err != nil {
			issues = append(issues, fmt.Sprintf("shadowing: %v", err))
		}
		cfg.Shadowing = mode
	}

	if raw.Extensions != nil {
		cfg.Extensions = nil
		if len(raw.Extensions) == 0 {
			issues = append(issues, "extensions: at least one extension is required")
		}
		for _, ext := range raw.Extensions {
			ext = strings.TrimSpace(ext)
			if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
				issues = append(issues, fmt.Sprintf("extensions: %q must start with '.'", ext))
				continue
			}
			cfg.Extensions = append(cfg.Extensions, ext)
		}
	}

	if raw.Color != "" {
		switch c := ColorMode(strings.TrimSpace(raw.Color)); c {
		case ColorAuto, ColorAlways, ColorNever:
			cfg.Color = c
		default:
			issues = append(issues, fmt.Sprintf("color: unknown mode %q (want auto, always or never)", raw.Color))
		}
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return cfg, nil
}
