package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the subset of rootCmd's flags that make sense to pin
// in a config file shared across runs (window parameters, output layout).
// Pointer fields distinguish "absent from the file" from "zero value",
// so a flag explicitly passed on the command line always wins.
type fileConfig struct {
	Attempts    *uint32  `yaml:"attempts"`
	Seconds     *float64 `yaml:"seconds"`
	Parallelism *int     `yaml:"parallelism"`
	MaxUsers    *int     `yaml:"max_users"`
	Year        *string  `yaml:"year"`
	Strict      *bool    `yaml:"strict"`
	OutDir      *string  `yaml:"out_dir"`
	Breakins    *string  `yaml:"breakins"`
	ExecTime    *string  `yaml:"exectime"`
	Diagnostics *bool    `yaml:"diagnostics"`
	MetricsAddr *string  `yaml:"metrics_addr"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// applyFileConfig fills in any flag that was not explicitly set on the
// command line from cfg. explicitlySet reports whether the named flag was
// passed on the command line (cobra's Flags().Changed).
func applyFileConfig(cfg *fileConfig, explicitlySet func(name string) bool) {
	if cfg.Attempts != nil && !explicitlySet("attempts") {
		attemptsFlag = *cfg.Attempts
	}
	if cfg.Seconds != nil && !explicitlySet("seconds") {
		secondsFlag = *cfg.Seconds
	}
	if cfg.Parallelism != nil && !explicitlySet("parallelism") {
		parallelismFlag = *cfg.Parallelism
	}
	if cfg.MaxUsers != nil && !explicitlySet("max-users") {
		maxUsersFlag = *cfg.MaxUsers
	}
	if cfg.Year != nil && !explicitlySet("year") {
		yearFlag = *cfg.Year
	}
	if cfg.Strict != nil && !explicitlySet("strict") {
		strictFlag = *cfg.Strict
	}
	if cfg.OutDir != nil && !explicitlySet("out-dir") {
		outDirFlag = *cfg.OutDir
	}
	if cfg.Breakins != nil && !explicitlySet("breakins") {
		breakinsFlag = *cfg.Breakins
	}
	if cfg.ExecTime != nil && !explicitlySet("exectime") {
		exectimeFlag = *cfg.ExecTime
	}
	if cfg.Diagnostics != nil && !explicitlySet("diagnostics") {
		diagnosticsFlag = *cfg.Diagnostics
	}
	if cfg.MetricsAddr != nil && !explicitlySet("metrics-addr") {
		metricsAddrFlag = *cfg.MetricsAddr
	}
}
