// Package project discovers the monorepo's declared sub-projects and decides
// which of them a pull request touched.
package project

import (
	"path"
	"sort"
	"strings"

	"github.com/releasekit/changefile/stringhelper"
)

const defaultChangelogDir = "changelog"

// Project is one declared workspace package. Path is slash-separated and
// relative to the repository root. RequiresChangelog is opt-in: a project
// without an explicit declaration does not require a changelog.
type Project struct {
	Path              string
	Name              string
	RequiresChangelog bool
	ChangelogDir      string
}

// FragmentPath returns the repository-relative, slash-separated path of the
// changelog fragment file named fileName for this project.
func (p Project) FragmentPath(fileName string) string {
	return path.Join(p.Path, p.ChangelogDir, fileName)
}

// TouchedRequiring intersects the projects that declare a changelog
// requirement with the projects owning at least one changed file. Ownership
// is by longest matching project path, so nested projects shadow their
// parents. The result is sorted by path; generation and reporting both walk
// it in that order.
func TouchedRequiring(projects []Project, changedFiles []string) []Project {
	byPath := make(map[string]Project, len(projects))
	for _, p := range projects {
		byPath[p.Path] = p
	}
	var touched []string
	for _, file := range changedFiles {
		owner, ok := owningProject(projects, file)
		if !ok {
			continue
		}
		if !owner.RequiresChangelog {
			continue
		}
		touched = append(touched, owner.Path)
	}
	touched = stringhelper.Deduplicate(touched)
	sort.Strings(touched)
	ret := make([]Project, 0, len(touched))
	for _, p := range touched {
		ret = append(ret, byPath[p])
	}
	return ret
}

func owningProject(projects []Project, file string) (Project, bool) {
	var best Project
	found := false
	for _, p := range projects {
		if !strings.HasPrefix(file, p.Path+"/") && file != p.Path {
			continue
		}
		if !found || len(p.Path) > len(best.Path) {
			best = p
			found = true
		}
	}
	return best, found
}
