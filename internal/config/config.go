package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"bladesplit/internal/compose"
	"bladesplit/internal/fileops"
	"bladesplit/internal/section"
)

// DefaultPath is the plan file looked up in the workspace root.
const DefaultPath = "bladesplit.yaml"

// Config is the refactor plan: where the template lives, where outputs
// go, and the ordered name lists the extraction and composition steps
// work from.
type Config struct {
	// Workspace is the root every relative path resolves against.
	Workspace string `yaml:"workspace,omitempty"`

	// Source template split by extract.
	Source string `yaml:"source"`
	// BetweenSources are tried in order by extract-between; empty means
	// the source's backup, then the source.
	BetweenSources []string `yaml:"between_sources,omitempty"`

	PartialsDir string `yaml:"partials_dir"`
	Wrapper     string `yaml:"wrapper"`
	Final       string `yaml:"final"`
	Extension   string `yaml:"extension"`

	// Backup keeps a one-time copy of the final file before compose overwrites it.
	Backup bool `yaml:"backup"`

	Markers section.Convention `yaml:"markers"`

	Compose ComposeConfig `yaml:"compose"`

	// Stragglers are sections whose markers drifted from the strict
	// layout, recovered with the tolerant extractor.
	Stragglers []Straggler `yaml:"stragglers"`

	// Gaps are loose blocks between two named sections.
	Gaps []Gap `yaml:"gaps"`

	Logging LoggingConfig `yaml:"logging"`
}

// ComposeConfig describes the insertion point and the include order.
type ComposeConfig struct {
	OpenTag   string   `yaml:"open_tag"`
	CloseTag  string   `yaml:"close_tag"`
	Indent    string   `yaml:"indent"`
	Namespace string   `yaml:"namespace"`
	Order     []string `yaml:"order"`
}

// Straggler maps one partial to the spellings its markers may carry.
// The first spelling that matches wins.
type Straggler struct {
	Partial string   `yaml:"partial"`
	Names   []string `yaml:"names"`
}

// Gap recovers the text between End <After> and Start <Before>.
type Gap struct {
	Partial string `yaml:"partial"`
	After   string `yaml:"after"`
	Before  string `yaml:"before"`
}

// DefaultConfig returns the plan for the admin menu refactor.
func DefaultConfig() *Config {
	defaults := compose.DefaultOptions()
	return &Config{
		Source:      "resources/views/partials/admin/menu.blade.php",
		PartialsDir: "resources/views/partials/admin/menu",
		Wrapper:     "resources/views/partials/admin/menu-wrapper.blade.php",
		Final:       "resources/views/partials/admin/menu.blade.php",
		Extension:   section.DefaultExtension,
		Backup:      true,
		Markers:     section.DefaultConvention,
		Compose: ComposeConfig{
			OpenTag:   defaults.OpenTag,
			CloseTag:  defaults.CloseTag,
			Indent:    defaults.Indent,
			Namespace: defaults.Namespace,
			Order: []string{
				"dashboard",
				"hrm",
				"account",
				"crm",
				"project",
				"user-management",
				"products-system",
				"pos-system",
				"other-features",
				"system-setup",
			},
		},
		Stragglers: []Straggler{
			{
				Partial: "user-management",
				Names: []string{
					"User Managaement System",
					"User Management System",
					"User Management",
					"User Managaement",
				},
			},
		},
		Gaps: []Gap{
			{Partial: "other-features", After: "POs System", Before: "System Setup"},
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := fileops.WriteDocument(path, string(data)); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if ws := os.Getenv("BLADESPLIT_WORKSPACE"); ws != "" {
		c.Workspace = ws
	}
	if lvl := os.Getenv("BLADESPLIT_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
}

// Validate rejects plans no step could run with.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Source) == "" {
		problems = append(problems, "source is required")
	}
	if c.Wrapper == "" || c.Final == "" {
		problems = append(problems, "wrapper and final paths are required")
	} else if fileops.SamePath(c.Path(c.Wrapper), c.Path(c.Final)) {
		problems = append(problems, compose.ErrOverwritesWrapper.Error())
	}
	if !c.Markers.Valid() {
		problems = append(problems, fmt.Sprintf("markers need positive dash counts, got %d/%d",
			c.Markers.LeadDashes, c.Markers.TrailDashes))
	}
	if c.Compose.OpenTag == "" || c.Compose.CloseTag == "" {
		problems = append(problems, "compose.open_tag and compose.close_tag are required")
	}
	for i, s := range c.Stragglers {
		if s.Partial == "" || len(s.Names) == 0 {
			problems = append(problems, fmt.Sprintf("stragglers[%d] needs a partial and at least one name", i))
		}
	}
	for i, g := range c.Gaps {
		if g.Partial == "" || g.After == "" || g.Before == "" {
			problems = append(problems, fmt.Sprintf("gaps[%d] needs partial, after and before", i))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Path resolves a plan path against the workspace.
func (c *Config) Path(rel string) string {
	return fileops.Resolve(c.Workspace, rel)
}

// PartialPath is where the partial with the given base or file name lives.
func (c *Config) PartialPath(partial string) string {
	return c.Path(filepath.Join(c.PartialsDir, section.BaseName(partial, c.Extension)+c.Extension))
}

// BetweenCandidates lists the resolved inputs for extract-between.
func (c *Config) BetweenCandidates() []string {
	srcs := c.BetweenSources
	if len(srcs) == 0 {
		srcs = []string{c.Source + fileops.BackupSuffix, c.Source}
	}
	out := make([]string, len(srcs))
	for i, s := range srcs {
		out[i] = c.Path(s)
	}
	return out
}

// ComposeOptions converts the plan into composer options.
func (c *Config) ComposeOptions() compose.Options {
	return compose.Options{
		OpenTag:   c.Compose.OpenTag,
		CloseTag:  c.Compose.CloseTag,
		Indent:    c.Compose.Indent,
		Namespace: c.Compose.Namespace,
		Extension: c.Extension,
	}
}
