package config

type Config struct {
	GithubToken       string
	SlackToken        string
	RepoOwner         string
	RepoName          string
	PullRequestNumber int
	Clone             CloneSource
	RunningInCI       bool
}

// CloneSource decides where the pipeline's working copy comes from. The zero
// value means "clone fresh"; UseExistingClone is a development escape hatch
// that also skips dependency installation, since the caller is expected to
// have installed them already.
type CloneSource struct {
	existingPath string
}

func CloneFresh() CloneSource {
	return CloneSource{}
}

func UseExistingClone(path string) CloneSource {
	return CloneSource{existingPath: path}
}

func (s CloneSource) ExistingPath() (string, bool) {
	return s.existingPath, s.existingPath != ""
}
