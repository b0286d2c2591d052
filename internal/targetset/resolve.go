// Package targetset derives each module's effective target list from a
// shared baseline plus per-module additions and exclusions.
package targetset

import (
	"fmt"
	"sort"

	"github.com/embedx/targetman/internal/errors"
)

// Spec is the configuration-level target declaration.
type Spec struct {
	// Common targets shared by all modules, in declared order.
	Common []string
	// Additional maps module name to extra targets appended after Common.
	Additional map[string][]string
	// Excluded maps module name to targets removed from Common.
	Excluded map[string][]string
}

// Resolved is one module's final ordered target list.
type Resolved struct {
	Name    string
	Targets []string
}

// Resolve computes the per-module target list: Common in declared order
// with the module's exclusions removed, then the module's additions in
// declared order, first occurrence wins, duplicates dropped.
//
// Resolve is pure and deterministic: validation walks map keys in sorted
// order and resolution walks the declared module list, so identical
// input always yields identical output and identical first error.
// Redundant additions (already in Common) are returned as warnings, not
// errors; the duplicate-drop rule makes them harmless.
func Resolve(modules []string, spec Spec) ([]Resolved, []string, error) {
	declared := make(map[string]struct{}, len(modules))
	for _, m := range modules {
		declared[m] = struct{}{}
	}

	if err := checkKnownModules("additional_targets", spec.Additional, declared); err != nil {
		return nil, nil, err
	}
	if err := checkKnownModules("excluded_targets", spec.Excluded, declared); err != nil {
		return nil, nil, err
	}

	commonSet := make(map[string]struct{}, len(spec.Common))
	for _, t := range spec.Common {
		commonSet[t] = struct{}{}
	}

	for _, module := range sortedKeys(spec.Excluded) {
		for _, t := range spec.Excluded[module] {
			if _, ok := commonSet[t]; !ok {
				return nil, nil, errors.NewExcludeNotCommonError(module, t)
			}
		}
	}

	for _, module := range modules {
		overlap := intersect(spec.Additional[module], spec.Excluded[module])
		if len(overlap) > 0 {
			return nil, nil, errors.NewContradictionError(module, overlap)
		}
	}

	var warnings []string
	for _, module := range sortedKeys(spec.Additional) {
		var dup []string
		for _, t := range spec.Additional[module] {
			if _, ok := commonSet[t]; ok {
				dup = append(dup, t)
			}
		}
		if len(dup) > 0 {
			sort.Strings(dup)
			warnings = append(warnings, fmt.Sprintf(
				"module '%s' has additional target(s) already present in common_targets: %v", module, dup))
		}
	}

	resolved := make([]Resolved, 0, len(modules))
	for _, module := range modules {
		excluded := make(map[string]struct{}, len(spec.Excluded[module]))
		for _, t := range spec.Excluded[module] {
			excluded[t] = struct{}{}
		}

		final := make([]string, 0, len(spec.Common)+len(spec.Additional[module]))
		seen := make(map[string]struct{})
		for _, t := range spec.Common {
			if _, skip := excluded[t]; skip {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			final = append(final, t)
		}
		for _, t := range spec.Additional[module] {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			final = append(final, t)
		}

		resolved = append(resolved, Resolved{Name: module, Targets: final})
	}

	return resolved, warnings, nil
}

func checkKnownModules(section string, m map[string][]string, declared map[string]struct{}) error {
	for _, name := range sortedKeys(m) {
		if _, ok := declared[name]; !ok {
			return errors.NewUnknownModuleError(section, name)
		}
	}
	return nil
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, t := range b {
		set[t] = struct{}{}
	}

	var out []string
	seen := make(map[string]struct{})
	for _, t := range a {
		if _, ok := set[t]; !ok {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
