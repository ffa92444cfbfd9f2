package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/releasekit/changefile/committer"
	"github.com/releasekit/changefile/config"
	"github.com/releasekit/changefile/fragment"
	"github.com/releasekit/changefile/ghclient"
	"github.com/releasekit/changefile/logger"
	"github.com/releasekit/changefile/pipeline"
	"github.com/releasekit/changefile/project"
	"github.com/releasekit/changefile/runner"
	"github.com/releasekit/changefile/workspace"
)

var moduleEnvSetup = fx.Module("env-setup", fx.Options(
	fx.Provide(
		config.NewGithubActionsFromEnv,
		config.New,
		logger.New,
	)))

var moduleMainSetup = fx.Module("main-setup", fx.Options(
	fx.Provide(
		newAction,
		pipeline.New,
		fx.Annotate(ghclient.New, fx.As(new(pipeline.MetadataSource))),
		fx.Annotate(runner.NewExecRunner, fx.As(new(runner.Runner))),
		fx.Annotate(workspace.NewProvider, fx.As(new(pipeline.WorkspaceProvider))),
		fx.Annotate(project.NewDiscovery, fx.As(new(pipeline.ProjectLister))),
		fx.Annotate(fragment.NewReconciler, fx.As(new(pipeline.Reconciler))),
		fx.Annotate(fragment.NewGenerator, fx.As(new(pipeline.FragmentWriter))),
		fx.Annotate(committer.New, fx.As(new(pipeline.CommitPusher))),
	),
	fx.Invoke(func(*Action) {}),
))

type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

func newRootCmd() *cobra.Command {
	var args config.Args
	cmd := &cobra.Command{
		Use:           "changefile <pr-number>",
		Short:         "Generate and commit changelog fragments for a pull request",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, argv []string) error {
			number, err := strconv.Atoi(argv[0])
			if err != nil || number <= 0 {
				return fmt.Errorf("invalid pull request number %q", argv[0])
			}
			args.PullRequestNumber = number
			return runPipeline(cmd.Context(), args)
		},
	}
	cmd.Flags().StringVar(&args.Owner, "owner", "", "repository owner (defaults to the Actions context)")
	cmd.Flags().StringVar(&args.Name, "name", "", "repository name (defaults to the Actions context)")
	cmd.Flags().StringVar(&args.DevRepoPath, "dev-repo-path", "", "use an existing clone instead of cloning fresh (skips dependency install)")
	cmd.AddCommand(newFreezeCmd())
	return cmd
}

func runPipeline(ctx context.Context, args config.Args) error {
	app := fx.New(
		fx.WithLogger(logger.NewFxLogger),
		fx.Supply(args),
		moduleEnvSetup,
		moduleMainSetup,
	)
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	sig := <-app.Wait()
	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop: %w", err)
	}
	if sig.ExitCode != 0 {
		return &exitCodeError{code: sig.ExitCode}
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			// The fatal diagnostic was already logged by the action.
			os.Exit(exitErr.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
