// Package committer stages, commits, and pushes the working copy's changelog
// fragments back to the pull request branch.
package committer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/releasekit/changefile/logger"
	"github.com/releasekit/changefile/runner"
)

// ErrPush reports that the final push was rejected. It is fatal: the push is
// the whole point of the run, so there is no recovery or retry.
var ErrPush = errors.New("failed to push to remote")

const (
	commitMessage = "Adding changelog from automation."
	botName       = "changefile automation"
	botEmail      = "changefile-bot@users.noreply.github.com"
)

type CommitResult struct {
	Committed bool
}

type Committer struct {
	run    runner.Runner
	logger logger.Logger
}

func New(run runner.Runner, logger logger.Logger) *Committer {
	return &Committer{
		run:    run,
		logger: logger,
	}
}

// CommitAndPush commits every working-copy change and pushes it to branch on
// the clone's origin. A clean working copy short-circuits to success, which
// makes re-running the pipeline against unchanged remote state a no-op.
//
// All git configuration is scoped to the clone at path: the bot identity is
// set with plain `git config` (never --global), and the hooks path is
// neutralized so repository-local hooks cannot block or alter the commit.
func (c *Committer) CommitAndPush(ctx context.Context, path string, branch string, isCI bool) (CommitResult, error) {
	status, err := c.run.Output(ctx, path, "git", "status", "--porcelain")
	if err != nil {
		return CommitResult{}, fmt.Errorf("failed to read working copy status: %w", err)
	}
	if strings.TrimSpace(status) == "" {
		c.logger.Infof("working copy is clean, nothing to commit")
		return CommitResult{}, nil
	}
	if isCI {
		if err := c.run.Run(ctx, path, "git", "config", "user.name", botName); err != nil {
			return CommitResult{}, fmt.Errorf("failed to configure bot name: %w", err)
		}
		if err := c.run.Run(ctx, path, "git", "config", "user.email", botEmail); err != nil {
			return CommitResult{}, fmt.Errorf("failed to configure bot email: %w", err)
		}
	}
	if err := c.run.Run(ctx, path, "git", "config", "core.hooksPath", os.DevNull); err != nil {
		return CommitResult{}, fmt.Errorf("failed to neutralize git hooks: %w", err)
	}
	if err := c.run.Run(ctx, path, "git", "add", "-A"); err != nil {
		return CommitResult{}, fmt.Errorf("failed to stage changes: %w", err)
	}
	if err := c.run.Run(ctx, path, "git", "commit", "-m", commitMessage); err != nil {
		return CommitResult{}, fmt.Errorf("failed to commit changes: %w", err)
	}
	if err := c.run.Run(ctx, path, "git", "push", "origin", "HEAD:"+branch); err != nil {
		return CommitResult{Committed: true}, fmt.Errorf("failed to push to branch %s (%v): %w", branch, err, ErrPush)
	}
	c.logger.Infof("pushed changelog commit to %s", branch)
	return CommitResult{Committed: true}, nil
}
