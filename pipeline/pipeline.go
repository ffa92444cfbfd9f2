// Package pipeline sequences the changelog automation for one pull request:
// fetch metadata, parse the directive, acquire a working copy, discover
// touched projects, reconcile and generate fragments, commit and push.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/releasekit/changefile/committer"
	"github.com/releasekit/changefile/config"
	"github.com/releasekit/changefile/directive"
	"github.com/releasekit/changefile/ghclient"
	"github.com/releasekit/changefile/logger"
	"github.com/releasekit/changefile/project"
	"github.com/releasekit/changefile/workspace"
)

type MetadataSource interface {
	PullRequest(ctx context.Context, owner string, name string, number int) (*ghclient.PullRequestContext, error)
	ChangedFiles(ctx context.Context, owner string, name string, base string, head string) ([]string, error)
}

type WorkspaceProvider interface {
	Acquire(ctx context.Context, headOwner string, headRepo string, branch string) (*workspace.WorkingCopy, error)
}

type ProjectLister interface {
	ListAll(ctx context.Context, root string) ([]project.Project, error)
}

type Reconciler interface {
	RemoveAll(root string, projects []project.Project, fragmentName string) error
}

type FragmentWriter interface {
	InstallDeps(ctx context.Context, wc *workspace.WorkingCopy) error
	Generate(ctx context.Context, wc *workspace.WorkingCopy, projects []project.Project, d directive.Directive, fragmentName string) []project.Project
}

type CommitPusher interface {
	CommitAndPush(ctx context.Context, path string, branch string, isCI bool) (committer.CommitResult, error)
}

type Pipeline struct {
	cfg        config.Config
	logger     logger.Logger
	meta       MetadataSource
	provider   WorkspaceProvider
	projects   ProjectLister
	reconciler Reconciler
	fragments  FragmentWriter
	committer  CommitPusher
}

func New(cfg config.Config, logger logger.Logger, meta MetadataSource, provider WorkspaceProvider, projects ProjectLister, reconciler Reconciler, fragments FragmentWriter, commitPusher CommitPusher) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		logger:     logger,
		meta:       meta,
		provider:   provider,
		projects:   projects,
		reconciler: reconciler,
		fragments:  fragments,
		committer:  commitPusher,
	}
}

// FragmentFileName derives the fragment file name from the PR branch, so a
// pull request always regenerates the same file on re-runs.
func FragmentFileName(branch string) string {
	return strings.ReplaceAll(branch, "/", "-")
}

// Run executes the pipeline once, strictly sequentially. Any error before
// generation aborts the run; a per-project generation failure only drops that
// project's fragment.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Infof("fetching pull request %s/%s#%d", p.cfg.RepoOwner, p.cfg.RepoName, p.cfg.PullRequestNumber)
	pr, err := p.meta.PullRequest(ctx, p.cfg.RepoOwner, p.cfg.RepoName, p.cfg.PullRequestNumber)
	if err != nil {
		return fmt.Errorf("failed to fetch pull request metadata: %w", err)
	}

	d, err := directive.Parse(pr.Body)
	if err != nil {
		return fmt.Errorf("failed to parse changelog directive: %w", err)
	}
	if !d.AutomationRequested {
		p.logger.Infof("changelog automation not requested for PR #%d, nothing to do", pr.Number)
		return nil
	}

	wc, err := p.provider.Acquire(ctx, pr.HeadOwner, pr.HeadRepo, pr.Branch)
	if err != nil {
		return fmt.Errorf("failed to acquire working copy: %w", err)
	}

	allProjects, err := p.projects.ListAll(ctx, wc.Path)
	if err != nil {
		return fmt.Errorf("failed to enumerate projects: %w", err)
	}
	changedFiles, err := p.meta.ChangedFiles(ctx, p.cfg.RepoOwner, p.cfg.RepoName, pr.BaseSHA, pr.HeadSHA)
	if err != nil {
		return fmt.Errorf("failed to list changed files: %w", err)
	}

	fragmentName := FragmentFileName(pr.Branch)
	if err := p.reconciler.RemoveAll(wc.Path, allProjects, fragmentName); err != nil {
		return fmt.Errorf("failed to reconcile existing fragments: %w", err)
	}

	touched := project.TouchedRequiring(allProjects, changedFiles)
	if len(touched) == 0 {
		p.logger.Infof("no touched project requires a changelog, nothing to do")
		return nil
	}

	if err := p.fragments.InstallDeps(ctx, wc); err != nil {
		return fmt.Errorf("failed to install dependencies: %w", err)
	}
	succeeded := p.fragments.Generate(ctx, wc, touched, *d, fragmentName)

	result, err := p.committer.CommitAndPush(ctx, wc.Path, pr.Branch, p.cfg.RunningInCI)
	if err != nil {
		return fmt.Errorf("failed to commit and push fragments: %w", err)
	}
	if !result.Committed {
		p.logger.Infof("no fragment changes to commit for PR #%d", pr.Number)
		return nil
	}
	if len(succeeded) == 0 {
		p.logger.Infof("committed stale fragment removals for PR #%d, no new fragments", pr.Number)
		return nil
	}
	paths := make([]string, 0, len(succeeded))
	for _, proj := range succeeded {
		paths = append(paths, proj.Path)
	}
	p.logger.Infof("created changelog fragments for: %s", strings.Join(paths, ", "))
	return nil
}
