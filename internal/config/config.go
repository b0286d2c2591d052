package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/embedx/targetman/internal/errors"
)

// BuildSystem selects the build-file generator and the build tool used
// to run targets.
type BuildSystem string

const (
	// BuildSystemMake generates Makefiles and runs targets with make
	BuildSystemMake BuildSystem = "make"
	// BuildSystemNinja generates Ninja files and runs targets with ninja
	BuildSystemNinja BuildSystem = "ninja"
)

// Generator returns the CMake generator name for the build system.
// Unrecognized values are a fatal configuration error, never defaulted.
func (s BuildSystem) Generator() (string, error) {
	switch s {
	case BuildSystemMake:
		return "Unix Makefiles", nil
	case BuildSystemNinja:
		return "Ninja", nil
	default:
		return "", errors.NewBuildSystemError(string(s))
	}
}

// BuildConfig is the required build section of the configuration.
type BuildConfig struct {
	System BuildSystem `yaml:"system"`
	// Jobs is the parallel worker count passed to make as -jN.
	// Zero means unset; the CLI supplies a CPU-count default for make.
	Jobs int `yaml:"jobs"`
}

// ModuleConfig is one entry of the legacy explicit module list.
type ModuleConfig struct {
	Name    string   `yaml:"name"`
	Targets []string `yaml:"targets"`
}

// Config is the raw configuration document. Two module-set schemas are
// supported and resolved once at load time: the legacy explicit list
// (Modules) and the declarative form (ModulePaths plus the
// common/additional/excluded target declarations).
type Config struct {
	Build BuildConfig `yaml:"build"`

	Modules []ModuleConfig `yaml:"modules"`

	ModulePaths       []string            `yaml:"module_paths"`
	ExcludeModules    []string            `yaml:"exclude_modules"`
	CommonTargets     []string            `yaml:"common_targets"`
	AdditionalTargets map[string][]string `yaml:"additional_targets"`
	ExcludedTargets   map[string][]string `yaml:"excluded_targets"`

	ReportsToShow []string `yaml:"reports_to_show"`
}

// Schema identifies which module-set schema a configuration uses.
type Schema int

const (
	// SchemaLegacy is the explicit list of modules with per-module targets
	SchemaLegacy Schema = iota
	// SchemaDeclarative is search roots plus common/additional/excluded targets
	SchemaDeclarative
)

// Schema returns the module-set schema of the configuration.
func (c *Config) Schema() Schema {
	if len(c.Modules) > 0 {
		return SchemaLegacy
	}
	return SchemaDeclarative
}

// Load reads and parses a configuration file. It does not validate;
// callers run Validate before using the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigNotFoundError(path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.NewConfigUnmarshalError(path, err)
	}

	return &cfg, nil
}
