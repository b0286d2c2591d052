package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/embedx/targetman/internal/errors"
)

// Validate checks the structural rules of the configuration document.
// Cross-referencing the target declarations against the concrete module
// list happens later, in target resolution, because under the
// declarative schema the module list only exists after discovery.
func (c *Config) Validate() error {
	if c.Build.System == "" {
		return errors.NewConfigInvalidError("missing required 'build.system' (make | ninja)")
	}
	if _, err := c.Build.System.Generator(); err != nil {
		return err
	}
	if c.Build.Jobs < 0 {
		return errors.NewConfigInvalidError("'build.jobs' must be a non-negative integer")
	}

	if c.Schema() == SchemaLegacy {
		return c.validateLegacy()
	}
	return c.validateDeclarative()
}

func (c *Config) validateLegacy() error {
	for i, m := range c.Modules {
		if strings.TrimSpace(m.Name) == "" {
			return errors.NewConfigInvalidError(fmt.Sprintf("'modules[%d]' must have a non-empty 'name'", i))
		}
		if m.Targets == nil {
			return errors.NewConfigInvalidError(
				fmt.Sprintf("module '%s' must have a list of 'targets'", m.Name))
		}
		for _, t := range m.Targets {
			if strings.TrimSpace(t) == "" {
				return errors.NewConfigInvalidError(
					fmt.Sprintf("module '%s' has an empty target name", m.Name))
			}
		}
	}
	return nil
}

func (c *Config) validateDeclarative() error {
	if len(c.ModulePaths) == 0 {
		return errors.NewConfigInvalidError("missing 'modules' or 'module_paths' section")
	}
	for _, p := range c.ModulePaths {
		if strings.TrimSpace(p) == "" {
			return errors.NewConfigInvalidError("all entries in 'module_paths' must be non-empty strings")
		}
	}

	if c.CommonTargets == nil {
		return errors.NewConfigInvalidError("missing 'common_targets' or it is not a list")
	}
	for _, t := range c.CommonTargets {
		if strings.TrimSpace(t) == "" {
			return errors.NewConfigInvalidError("all entries in 'common_targets' must be non-empty strings")
		}
	}

	if err := validateTargetMap("additional_targets", c.AdditionalTargets); err != nil {
		return err
	}
	return validateTargetMap("excluded_targets", c.ExcludedTargets)
}

func validateTargetMap(section string, m map[string][]string) error {
	// Sorted keys keep the first reported problem stable across runs.
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return errors.NewConfigInvalidError(
				fmt.Sprintf("keys in '%s' must be non-empty module names", section))
		}
		for _, t := range m[name] {
			if strings.TrimSpace(t) == "" {
				return errors.NewConfigInvalidError(
					fmt.Sprintf("'%s.%s' must be a list of non-empty strings", section, name))
			}
		}
	}
	return nil
}
