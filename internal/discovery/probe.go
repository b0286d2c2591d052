package discovery

import (
	"context"
	"regexp"
	"strings"

	"github.com/embedx/targetman/internal/errors"
	"github.com/embedx/targetman/internal/proc"
)

// targetTokenRe accepts bare identifier or path-like tokens.
var targetTokenRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.+/\-]*$`)

// headerPrefixes start lines of help prose, not target names.
var headerPrefixes = []string{"the following", "built with", "targets:", "all primary"}

// ProbeTargets asks the build tool which targets the configured module
// exposes and parses the human-oriented listing with ExtractTargetName.
// A non-zero exit is a discovery error carrying the combined output.
func ProbeTargets(ctx context.Context, runner proc.Runner, module *Module, outPath string) ([]string, error) {
	cmd := proc.Command{
		Name:    "cmake",
		Args:    []string{"--build", outPath, "--target", "help"},
		Dir:     module.Path,
		Capture: true,
	}

	result, err := runner.Run(ctx, cmd)
	if err != nil {
		return nil, errors.NewProbeFailedError(module.Path, "", err)
	}
	if result.ExitCode != 0 {
		return nil, errors.NewProbeFailedError(module.Path, result.Output, nil)
	}

	var targets []string
	seen := make(map[string]struct{})
	for _, line := range strings.Split(result.Output, "\n") {
		target, ok := ExtractTargetName(line)
		if !ok {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		targets = append(targets, target)
	}

	return targets, nil
}

// ExtractTargetName pulls a candidate target name out of one line of
// build-tool listing output. This is a best-effort heuristic over
// human-oriented text, not a grammar: lines it cannot read are dropped
// silently, and an accepted token is a candidate, not a verified
// target.
func ExtractTargetName(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if s == "" {
		return "", false
	}

	lowered := strings.ToLower(s)
	for _, prefix := range headerPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return "", false
		}
	}

	// Continuation marker, then bullet characters.
	s = strings.TrimSpace(strings.TrimPrefix(s, "..."))
	for _, bullet := range []string{"*", "-", "+"} {
		if strings.HasPrefix(s, bullet) {
			s = strings.TrimSpace(s[len(bullet):])
		}
	}

	for _, sep := range []string{":", " ("} {
		if i := strings.Index(s, sep); i >= 0 {
			s = strings.TrimSpace(s[:i])
		}
	}

	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", false
	}

	token := fields[0]
	if !targetTokenRe.MatchString(token) {
		return "", false
	}
	return token, true
}
