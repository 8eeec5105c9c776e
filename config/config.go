// Package config reads project-level settings for the compiler
// collaborators (driver, CLI) from an optional remi.toml file.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the [build] and [toolchain] sections of remi.toml.
type Config struct {
	Build struct {
		DefaultTarget   string `toml:"default_target"`
		KeepTemporaries bool   `toml:"keep_temporaries"`
		Verbose         bool   `toml:"verbose"`
	} `toml:"build"`

	Toolchain struct {
		Assembler   string `toml:"assembler"`
		CC          string `toml:"cc"`
		LinkerFlags string `toml:"linker_flags"`
	} `toml:"toolchain"`
}

// DefaultConfig returns the configuration used when no remi.toml is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Build.DefaultTarget = ""
	cfg.Build.KeepTemporaries = false
	cfg.Build.Verbose = false
	cfg.Toolchain.Assembler = "fasm"
	cfg.Toolchain.CC = "cc"
	cfg.Toolchain.LinkerFlags = ""
	return cfg
}

// Load reads path and overlays it on top of DefaultConfig. A missing file
// is not an error: the defaults are returned untouched, so a project
// without a remi.toml builds exactly as one that ships an empty one.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
