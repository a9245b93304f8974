package cmd

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vippsas/chunkfmt/sql"
)

// FormatConfig is the on-disk shape of chunkfmt.yaml: the ambient
// configuration layer every subcommand consults. A --width flag overrides
// it, and it overrides sql.Options' own defaults.
//
// Indent and OverflowCost are accepted for config-surface completeness but
// are not yet wired to engine behavior: chunk.SpacesPerIndent and
// chunk.OverflowCharCost are fixed compile-time constants by design (see
// chunk.go), not per-run parameters, so these two fields are currently
// read-and-ignored rather than applied. See DESIGN.md.
type FormatConfig struct {
	Width        int  `yaml:"width"`
	Indent       int  `yaml:"indent"`
	OverflowCost int  `yaml:"overflow_cost"`
	NoPreempt    bool `yaml:"no_preempt"`
}

// loadConfig reads chunkfmt.yaml out of dir. A missing file is not an
// error: callers get the zero value, which defers entirely to flags and
// sql.Options' own defaults.
func loadConfig(dir string) (FormatConfig, error) {
	var cfg FormatConfig
	data, err := os.ReadFile(filepath.Join(dir, "chunkfmt.yaml"))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// resolveOptions layers the --width flag over chunkfmt.yaml over
// sql.Options' own defaults, in that priority order.
func resolveOptions() (sql.Options, error) {
	cfg, err := loadConfig(directory)
	if err != nil {
		return sql.Options{}, err
	}

	opts := sql.Options{
		PageWidth:         cfg.Width,
		DisablePreemption: cfg.NoPreempt,
	}
	if pageWidth > 0 {
		opts.PageWidth = pageWidth
	}
	return opts, nil
}
