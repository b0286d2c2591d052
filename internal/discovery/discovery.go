// Package discovery locates buildable modules under configured search
// roots and probes which targets each one's build description exposes.
package discovery

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/embedx/targetman/internal/errors"
)

// MarkerFile qualifies a directory as a module.
const MarkerFile = "CMakeLists.txt"

// Module is one independently buildable unit. Targets and Available are
// populated during target resolution and probing; Available is the
// subset of Targets confirmed to exist in the build description, in
// Targets order.
type Module struct {
	Name string
	Path string

	Targets   []string
	Available []string
}

// ResolvePaths makes search roots absolute: `~` expands to the home
// directory and relative paths are anchored at the configuration file's
// directory, not the process working directory.
func ResolvePaths(paths []string, configPath string) ([]string, error) {
	baseDir, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return nil, err
	}

	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "~" || strings.HasPrefix(p, "~/") {
			home, err := os.UserHomeDir()
			if err == nil {
				p = filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
			}
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		resolved = append(resolved, filepath.Clean(p))
	}
	return resolved, nil
}

// Discover walks each search root and collects subdirectories carrying
// the marker file, in sorted name order per root. A missing root, a
// module name seen under two roots, or an empty final list is a
// discovery error.
func Discover(roots []string, excludeNames []string) ([]*Module, error) {
	excluded := make(map[string]struct{}, len(excludeNames))
	for _, name := range excludeNames {
		excluded[name] = struct{}{}
	}

	seen := make(map[string]struct{})
	var modules []*Module

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			return nil, errors.NewBadRootError(root)
		}

		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, errors.NewBadRootError(root)
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			name := entry.Name()
			if _, skip := excluded[name]; skip {
				continue
			}

			moduleDir := filepath.Join(root, name)
			marker := filepath.Join(moduleDir, MarkerFile)
			if info, err := os.Stat(marker); err != nil || info.IsDir() {
				continue
			}

			if _, dup := seen[name]; dup {
				return nil, errors.NewDuplicateModuleError(name, root)
			}
			seen[name] = struct{}{}

			modules = append(modules, &Module{Name: name, Path: moduleDir})
		}
	}

	if len(modules) == 0 {
		return nil, errors.NewNoModulesError()
	}

	return modules, nil
}
