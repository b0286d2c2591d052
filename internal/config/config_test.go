package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embedx/targetman/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDeclarative(t *testing.T) {
	path := writeConfig(t, `
build:
  system: ninja
  jobs: 4
module_paths:
  - ../modules
exclude_modules:
  - experimental
common_targets:
  - build
  - test
additional_targets:
  alpha:
    - ccmr
excluded_targets:
  beta:
    - test
reports_to_show:
  - ccm
  - ccr
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, SchemaDeclarative, cfg.Schema())
	assert.Equal(t, BuildSystemNinja, cfg.Build.System)
	assert.Equal(t, 4, cfg.Build.Jobs)
	assert.Equal(t, []string{"../modules"}, cfg.ModulePaths)
	assert.Equal(t, []string{"experimental"}, cfg.ExcludeModules)
	assert.Equal(t, []string{"build", "test"}, cfg.CommonTargets)
	assert.Equal(t, []string{"ccmr"}, cfg.AdditionalTargets["alpha"])
	assert.Equal(t, []string{"test"}, cfg.ExcludedTargets["beta"])
	assert.Equal(t, []string{"ccm", "ccr"}, cfg.ReportsToShow)
}

func TestLoadLegacy(t *testing.T) {
	path := writeConfig(t, `
build:
  system: make
modules:
  - name: alpha
    targets: [build, test]
  - name: beta
    targets: []
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, SchemaLegacy, cfg.Schema())
	require.Len(t, cfg.Modules, 2)
	assert.Equal(t, "alpha", cfg.Modules[0].Name)
	assert.Equal(t, []string{"build", "test"}, cfg.Modules[0].Targets)
	assert.Empty(t, cfg.Modules[1].Targets)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "build: [unclosed\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))
}

func TestGenerator(t *testing.T) {
	gen, err := BuildSystemMake.Generator()
	require.NoError(t, err)
	assert.Equal(t, "Unix Makefiles", gen)

	gen, err = BuildSystemNinja.Generator()
	require.NoError(t, err)
	assert.Equal(t, "Ninja", gen)

	_, err = BuildSystem("scons").Generator()
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))
	assert.Contains(t, err.Error(), "scons")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Build:         BuildConfig{System: BuildSystemMake},
			ModulePaths:   []string{"../modules"},
			CommonTargets: []string{"build"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid declarative",
			mutate: func(c *Config) {},
		},
		{
			name: "valid with empty common list",
			mutate: func(c *Config) {
				c.CommonTargets = []string{}
			},
		},
		{
			name:    "missing build system",
			mutate:  func(c *Config) { c.Build.System = "" },
			wantErr: "build.system",
		},
		{
			name:    "unknown build system",
			mutate:  func(c *Config) { c.Build.System = "bazel" },
			wantErr: "bazel",
		},
		{
			name:    "negative jobs",
			mutate:  func(c *Config) { c.Build.Jobs = -1 },
			wantErr: "build.jobs",
		},
		{
			name:    "missing module paths",
			mutate:  func(c *Config) { c.ModulePaths = nil },
			wantErr: "module_paths",
		},
		{
			name:    "empty module path entry",
			mutate:  func(c *Config) { c.ModulePaths = []string{"  "} },
			wantErr: "module_paths",
		},
		{
			name:    "missing common targets",
			mutate:  func(c *Config) { c.CommonTargets = nil },
			wantErr: "common_targets",
		},
		{
			name:    "blank common target",
			mutate:  func(c *Config) { c.CommonTargets = []string{"build", " "} },
			wantErr: "common_targets",
		},
		{
			name: "blank entry in additional targets",
			mutate: func(c *Config) {
				c.AdditionalTargets = map[string][]string{"alpha": {""}}
			},
			wantErr: "additional_targets.alpha",
		},
		{
			name: "blank key in excluded targets",
			mutate: func(c *Config) {
				c.ExcludedTargets = map[string][]string{" ": {"test"}}
			},
			wantErr: "excluded_targets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsConfig(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateLegacy(t *testing.T) {
	cfg := &Config{
		Build: BuildConfig{System: BuildSystemNinja},
		Modules: []ModuleConfig{
			{Name: "alpha", Targets: []string{"build"}},
		},
	}
	require.NoError(t, cfg.Validate())

	cfg.Modules = append(cfg.Modules, ModuleConfig{Name: " "})
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modules[1]")

	cfg.Modules[1] = ModuleConfig{Name: "beta"}
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "beta")

	cfg.Modules[1] = ModuleConfig{Name: "beta", Targets: []string{" "}}
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "beta")
}
