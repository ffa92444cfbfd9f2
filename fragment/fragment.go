// Package fragment reconciles and generates per-project changelog fragment
// files inside the working copy.
package fragment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/releasekit/changefile/directive"
	"github.com/releasekit/changefile/logger"
	"github.com/releasekit/changefile/project"
	"github.com/releasekit/changefile/runner"
	"github.com/releasekit/changefile/workspace"
)

type Reconciler struct {
	logger logger.Logger
}

func NewReconciler(logger logger.Logger) *Reconciler {
	return &Reconciler{
		logger: logger,
	}
}

// RemoveAll deletes any existing fragment named fragmentName under every
// project's changelog directory. This runs before generation so a re-run of
// the pipeline never accumulates stale or conflicting fragments for the same
// pull request: the previous run's fragment may describe a change that was
// since reverted or re-classified.
func (r *Reconciler) RemoveAll(root string, projects []project.Project, fragmentName string) error {
	for _, p := range projects {
		fragPath := filepath.Join(root, filepath.FromSlash(p.FragmentPath(fragmentName)))
		err := os.Remove(fragPath)
		if err == nil {
			r.logger.Infof("removed stale changelog fragment %s", p.FragmentPath(fragmentName))
			continue
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stale fragment %s: %w", fragPath, err)
		}
	}
	return nil
}

type Generator struct {
	run    runner.Runner
	logger logger.Logger
}

func NewGenerator(run runner.Runner, logger logger.Logger) *Generator {
	return &Generator{
		run:    run,
		logger: logger,
	}
}

// InstallDeps installs the working copy's dependencies once, before any
// generation call. A pre-installed working copy is left alone.
func (g *Generator) InstallDeps(ctx context.Context, wc *workspace.WorkingCopy) error {
	if wc.Preinstalled {
		g.logger.Debugf("working copy supplied pre-installed, skipping dependency install")
		return nil
	}
	g.logger.Infof("installing dependencies in %s", wc.Path)
	if err := g.run.Run(ctx, wc.Path, "yarn", "install", "--frozen-lockfile"); err != nil {
		return fmt.Errorf("failed to install dependencies: %w", err)
	}
	return nil
}

// Generate invokes each project's changelog fragment generator, one project
// at a time, in the given order. A failing project is logged and skipped so
// the remaining projects still get their fragments; the survivors are
// returned in the same order they were processed.
func (g *Generator) Generate(ctx context.Context, wc *workspace.WorkingCopy, projects []project.Project, d directive.Directive, fragmentName string) []project.Project {
	succeeded := make([]project.Project, 0, len(projects))
	for _, p := range projects {
		if err := g.generateOne(ctx, wc, p, d, fragmentName); err != nil {
			g.logger.Errorf("failed to generate changelog fragment for %s: %v", p.Path, err)
			continue
		}
		g.logger.Infof("generated changelog fragment for %s", p.Path)
		succeeded = append(succeeded, p)
	}
	return succeeded
}

func (g *Generator) generateOne(ctx context.Context, wc *workspace.WorkingCopy, p project.Project, d directive.Directive, fragmentName string) error {
	// Message and comment come from the PR body; passing them as discrete
	// argv entries means they can never break out of the command.
	args := []string{
		"changelogger", "add",
		"--file-name", fragmentName,
		"--significance", string(d.Significance),
		"--type", string(d.Type),
	}
	if d.Message != "" {
		args = append(args, "--message", d.Message)
	}
	if d.Comment != "" {
		args = append(args, "--comment", d.Comment)
	}
	dir := filepath.Join(wc.Path, filepath.FromSlash(p.Path))
	return g.run.Run(ctx, dir, "yarn", args...)
}
