// Package workspace acquires the working copy the pipeline mutates: either a
// fresh clone of the pull request's head repository, or an existing local
// clone supplied explicitly for development.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/releasekit/changefile/config"
	"github.com/releasekit/changefile/logger"
	"github.com/releasekit/changefile/runner"
)

// ErrRemoteBranch reports that the pull request branch does not exist on the
// remote.
var ErrRemoteBranch = errors.New("branch not found on remote")

// WorkingCopy is a transient clone owned by exactly one pipeline run.
// Preinstalled means the caller vouches for the dependency install already
// having happened (the dev-repo-path escape hatch).
type WorkingCopy struct {
	Path         string
	Preinstalled bool
}

type Provider struct {
	cfg    config.Config
	run    runner.Runner
	logger logger.Logger
}

func NewProvider(cfg config.Config, run runner.Runner, logger logger.Logger) *Provider {
	return &Provider{
		cfg:    cfg,
		run:    run,
		logger: logger,
	}
}

// Acquire returns the working copy for this run. With an existing clone
// configured it is used as-is; otherwise the head repository is cloned to a
// temporary directory and the PR branch is checked out.
func (p *Provider) Acquire(ctx context.Context, headOwner string, headRepo string, branch string) (*WorkingCopy, error) {
	if path, ok := p.cfg.Clone.ExistingPath(); ok {
		p.logger.Infof("using existing clone at %s", path)
		return &WorkingCopy{Path: path, Preinstalled: true}, nil
	}
	path, err := p.Clone(ctx, headOwner, headRepo, true)
	if err != nil {
		return nil, err
	}
	if err := p.CheckoutBranch(ctx, path, branch); err != nil {
		return nil, err
	}
	return &WorkingCopy{Path: path}, nil
}

// Clone clones owner/name into a fresh temporary directory and returns the
// path. The token comes from the environment-supplied configuration; it is
// embedded in the clone URL and never logged.
func (p *Provider) Clone(ctx context.Context, owner string, name string, shallow bool) (string, error) {
	dir, err := os.MkdirTemp("", "changefile-*")
	if err != nil {
		return "", fmt.Errorf("failed to create working copy directory: %w", err)
	}
	p.logger.Infof("cloning %s/%s into %s", owner, name, dir)
	cloneURL := fmt.Sprintf("https://x-access-token:%s@github.com/%s/%s.git", p.cfg.GithubToken, owner, name)
	args := []string{"clone"}
	if shallow {
		args = append(args, "--depth=1")
	}
	args = append(args, cloneURL, dir)
	if err := p.run.Run(ctx, "", "git", args...); err != nil {
		return "", fmt.Errorf("failed to clone %s/%s: %w", owner, name, err)
	}
	return dir, nil
}

// CheckoutBranch fetches and checks out branch in the clone at path. A fetch
// failure means the branch is missing on the remote.
func (p *Provider) CheckoutBranch(ctx context.Context, path string, branch string) error {
	p.logger.Infof("checking out branch %s", branch)
	if err := p.run.Run(ctx, path, "git", "fetch", "--depth=1", "origin", branch); err != nil {
		return fmt.Errorf("failed to fetch branch %s (%v): %w", branch, err, ErrRemoteBranch)
	}
	if err := p.run.Run(ctx, path, "git", "checkout", "-B", branch, "FETCH_HEAD"); err != nil {
		return fmt.Errorf("failed to check out branch %s: %w", branch, err)
	}
	return nil
}
