package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/sethvargo/go-githubactions"
)

// Args carries the values parsed from the command line before the rest of the
// configuration is resolved from the environment.
type Args struct {
	PullRequestNumber int
	Owner             string
	Name              string
	DevRepoPath       string
}

func New(args Args, action *githubactions.Action) (Config, error) {
	cfg := Config{
		GithubToken:       os.Getenv("GITHUB_TOKEN"),
		SlackToken:        os.Getenv("SLACK_TOKEN"),
		RepoOwner:         args.Owner,
		RepoName:          args.Name,
		PullRequestNumber: args.PullRequestNumber,
		RunningInCI:       os.Getenv("GITHUB_ACTIONS") == "true" || os.Getenv("CI") == "true",
	}
	if token := action.GetInput("github-token"); token != "" {
		cfg.GithubToken = token
	}
	if args.DevRepoPath != "" {
		cfg.Clone = UseExistingClone(args.DevRepoPath)
	} else {
		cfg.Clone = CloneFresh()
	}
	if cfg.RepoOwner == "" || cfg.RepoName == "" {
		ghCtx, err := action.Context()
		if err != nil {
			return Config{}, fmt.Errorf("failed to read github actions context: %w", err)
		}
		owner, name := ghCtx.Repo()
		if cfg.RepoOwner == "" {
			cfg.RepoOwner = owner
		}
		if cfg.RepoName == "" {
			cfg.RepoName = name
		}
	}
	if cfg.RepoOwner == "" || cfg.RepoName == "" {
		return Config{}, errors.New("repository owner and name are required: pass --owner and --name outside of github actions")
	}
	if cfg.PullRequestNumber <= 0 {
		return Config{}, fmt.Errorf("invalid pull request number %d", cfg.PullRequestNumber)
	}
	if cfg.GithubToken == "" {
		return Config{}, errors.New("a github token is required: set GITHUB_TOKEN or the github-token input")
	}
	return cfg, nil
}

func NewGithubActionsFromEnv() *githubactions.Action {
	return githubactions.New()
}
