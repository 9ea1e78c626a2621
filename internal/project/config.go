package project

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"cmdlint/internal/diag"
)

// Config mirrors cmdlint.toml.
type Config struct {
	Path     string            `toml:"-"` // empty when no file was found
	Root     string            `toml:"-"`
	Analysis AnalysisConfig    `toml:"analysis"`
	Format   FormatConfig      `toml:"format"`
	Rules    map[string]string `toml:"rules"`
}

type AnalysisConfig struct {
	Include        []string `toml:"include"`
	Exclude        []string `toml:"exclude"`
	Jobs           int      `toml:"jobs"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Cache          bool     `toml:"cache"`
}

type FormatConfig struct {
	Indent string `toml:"indent"`
}

// Default returns the configuration used when no cmdlint.toml exists.
func Default(root string) *Config {
	return &Config{
		Root: root,
		Analysis: AnalysisConfig{
			Include: []string{"**/*.cs"},
			Exclude: []string{"**/obj/**", "**/bin/**"},
		},
	}
}

// Load finds cmdlint.toml above startDir and decodes it over the defaults.
// Without a file it returns Default rooted at startDir.
func Load(startDir string) (*Config, error) {
	cfgPath, ok, err := FindConfig(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		root, err := filepath.Abs(startDir)
		if err != nil {
			return nil, err
		}
		if !isDir(root) {
			root = filepath.Dir(root)
		}
		return Default(root), nil
	}
	return LoadFile(cfgPath)
}

// LoadFile decodes a specific config file.
func LoadFile(path string) (*Config, error) {
	cfg := Default(filepath.Dir(path))
	cfg.Path = path
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Analysis.Jobs < 0 {
		return fmt.Errorf("[analysis].jobs must not be negative")
	}
	if c.Analysis.MaxDiagnostics < 0 {
		return fmt.Errorf("[analysis].max_diagnostics must not be negative")
	}
	for _, p := range slices.Concat(c.Analysis.Include, c.Analysis.Exclude) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob %q", p)
		}
	}
	if strings.Trim(c.Format.Indent, " \t") != "" {
		return fmt.Errorf("[format].indent may only contain spaces or tabs")
	}
	_, _, err := c.Overrides()
	return err
}

// Overrides converts [rules] into reporter overrides. Ids of rules that
// cannot be reconfigured are returned separately so the caller can report
// them; they never reach the map.
func (c *Config) Overrides() (map[diag.Code]diag.Override, []string, error) {
	out := make(map[diag.Code]diag.Override, len(c.Rules))
	var ignored []string
	for _, id := range slices.Sorted(maps.Keys(c.Rules)) {
		d, ok := diag.LookupID(id)
		if !ok {
			return nil, nil, fmt.Errorf("[rules]: unknown rule %q", id)
		}
		sev, enabled, err := diag.ParseSeverity(c.Rules[id])
		if err != nil {
			return nil, nil, fmt.Errorf("[rules].%s: %w", id, err)
		}
		if d.NotConfigurable {
			ignored = append(ignored, d.Code.ID())
			continue
		}
		out[d.Code] = diag.Override{Severity: sev, Disabled: !enabled}
	}
	return out, ignored, nil
}
