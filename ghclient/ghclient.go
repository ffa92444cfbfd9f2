package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/releasekit/changefile/config"
	"github.com/releasekit/changefile/logger"
	"github.com/releasekit/changefile/stringhelper"
)

// ErrPullRequestNotFound reports that the hosting API has no pull request
// with the requested number.
var ErrPullRequestNotFound = errors.New("pull request not found")

// PullRequestContext is the immutable snapshot of PR metadata the pipeline
// works from. It is fetched once per run.
type PullRequestContext struct {
	Number    int
	Body      string
	Branch    string
	HeadOwner string
	HeadRepo  string
	HeadSHA   string
	BaseSHA   string
}

type GhClient struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        logger.Logger
}

func New(cfg config.Config, logger logger.Logger) (*GhClient, error) {
	// TODO: plumb the caller's context through fx instead of Background here
	ctx := context.Background()
	restClient, err := newGithubClient(ctx, cfg.GithubToken, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create github rest client: %w", err)
	}
	graphqlClient, err := newGithubGraphQLClient(ctx, cfg.GithubToken, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create github graphql client: %w", err)
	}
	return &GhClient{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
	}, nil
}

func newGithubClient(ctx context.Context, token string, l logger.Logger) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)
	s, _, err := client.Zen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query github zen: %w", err)
	}
	l.Debugf("github zen: %s", s)
	return client, nil
}

func newGithubGraphQLClient(ctx context.Context, token string, l logger.Logger) (*githubv4.Client, error) {
	src := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	httpClient := oauth2.NewClient(ctx, src)

	client := githubv4.NewClient(httpClient)
	// Test query to make sure the token works
	var query struct {
		Viewer struct {
			Login githubv4.String
		}
	}
	err := client.Query(ctx, &query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query github viewer: %w", err)
	}
	l.Debugf("github viewer: %s", query.Viewer.Login)
	return client, nil
}

// PullRequest fetches the metadata snapshot for one pull request.
func (g *GhClient) PullRequest(ctx context.Context, owner string, name string, number int) (*PullRequestContext, error) {
	g.logger.Debugf("getting pull request %s/%s#%d", owner, name, number)
	pr, resp, err := g.restClient.PullRequests.Get(ctx, owner, name, number)
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("pull request %s/%s#%d: %w", owner, name, number, ErrPullRequestNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pull request %s/%s#%d: %w", owner, name, number, err)
	}
	head := pr.GetHead()
	headRepo := head.GetRepo()
	ret := &PullRequestContext{
		Number:    number,
		Body:      pr.GetBody(),
		Branch:    head.GetRef(),
		HeadOwner: headRepo.GetOwner().GetLogin(),
		HeadRepo:  headRepo.GetName(),
		HeadSHA:   head.GetSHA(),
		BaseSHA:   pr.GetBase().GetSHA(),
	}
	if ret.Branch == "" || ret.HeadSHA == "" || ret.BaseSHA == "" {
		return nil, fmt.Errorf("pull request %s/%s#%d is missing head or base commit information", owner, name, number)
	}
	return ret, nil
}

// ChangedFiles lists the files changed between base and head using the
// hosting API's compare semantics, not a local merge-base heuristic.
func (g *GhClient) ChangedFiles(ctx context.Context, owner string, name string, base string, head string) ([]string, error) {
	g.logger.Debugf("comparing %s...%s in %s/%s", base, head, owner, name)
	var opts github.ListOptions
	var ret []string
	for {
		cmp, resp, err := g.restClient.Repositories.CompareCommits(ctx, owner, name, base, head, &opts)
		if err != nil {
			return nil, fmt.Errorf("failed to compare %s...%s: %w", base, head, err)
		}
		for _, file := range cmp.Files {
			ret = append(ret, file.GetFilename())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return stringhelper.Deduplicate(ret), nil
}
