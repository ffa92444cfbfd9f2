// Package runner is a thin seam over os/exec. Commands are always built from
// structured argument lists, never from interpolated shell strings, because
// some of the arguments (changelog message and comment) come straight out of
// untrusted pull request bodies.
package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/releasekit/changefile/logger"
)

type Runner interface {
	// Run executes name with args in dir, inheriting stdout and stderr so the
	// subprocess output is visible to the operator.
	Run(ctx context.Context, dir string, name string, args ...string) error
	// Output executes name with args in dir and returns captured stdout.
	Output(ctx context.Context, dir string, name string, args ...string) (string, error)
}

type ExecRunner struct {
	logger logger.Logger
}

func NewExecRunner(logger logger.Logger) *ExecRunner {
	return &ExecRunner{
		logger: logger,
	}
}

var _ Runner = (*ExecRunner)(nil)

func (r *ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) error {
	r.logger.Debugf("running %s %s (in %s)", name, strings.Join(args, " "), dir)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run %s: %w", name, err)
	}
	return nil
}

func (r *ExecRunner) Output(ctx context.Context, dir string, name string, args ...string) (string, error) {
	r.logger.Debugf("running %s %s (in %s)", name, strings.Join(args, " "), dir)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to run %s: %w", name, err)
	}
	return string(out), nil
}
