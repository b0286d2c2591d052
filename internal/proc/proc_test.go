package proc

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandString(t *testing.T) {
	cmd := Command{Name: "make", Args: []string{"-j4", "build"}}
	assert.Equal(t, "make -j4 build", cmd.String())
	assert.Equal(t, []string{"make", "-j4", "build"}, cmd.Argv())
}

func TestExecRunnerCapture(t *testing.T) {
	r := &ExecRunner{}

	result, err := r.Run(context.Background(), Command{
		Name:    "sh",
		Args:    []string{"-c", "echo out; echo err 1>&2"},
		Capture: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Output, "out")
	assert.Contains(t, result.Output, "err")
	assert.Greater(t, result.Duration.Nanoseconds(), int64(0))
}

func TestExecRunnerExitCode(t *testing.T) {
	r := &ExecRunner{}

	result, err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "exit 3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
}

func TestExecRunnerWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	r := &ExecRunner{}

	result, err := r.Run(context.Background(), Command{
		Name:    "pwd",
		Dir:     dir,
		Capture: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Output, dir)
}

func TestExecRunnerStartFailure(t *testing.T) {
	r := &ExecRunner{}

	_, err := r.Run(context.Background(), Command{Name: "no-such-binary-xyz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-binary-xyz")
}

func TestExecRunnerVerboseStreams(t *testing.T) {
	var stdout, stderr strings.Builder
	r := &ExecRunner{Verbose: true, Stdout: &stdout, Stderr: &stderr}

	result, err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo visible; echo noisy 1>&2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, stdout.String(), "visible")
	assert.Contains(t, stderr.String(), "noisy")
	// Nothing is captured when streaming.
	assert.Empty(t, result.Output)
}

func TestExecRunnerContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &ExecRunner{}

	_, err := r.Run(ctx, Command{Name: "sh", Args: []string{"-c", "sleep 5"}})
	require.Error(t, err)
}
