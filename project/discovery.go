package project

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"

	"github.com/releasekit/changefile/logger"
	"github.com/releasekit/changefile/stringhelper"
)

type Discovery struct {
	logger logger.Logger
}

func NewDiscovery(logger logger.Logger) *Discovery {
	return &Discovery{
		logger: logger,
	}
}

// packageManifest is the slice of a project's package.json we care about. The
// changelog stanza is how a project opts in to changelog automation.
type packageManifest struct {
	Name      string `json:"name"`
	Changelog *struct {
		Required bool   `json:"required"`
		Dir      string `json:"dir"`
	} `json:"changelog"`
}

type rootManifest struct {
	Workspaces json.RawMessage `json:"workspaces"`
}

type pnpmWorkspace struct {
	Packages []string `yaml:"packages"`
}

// ListAll enumerates the declared workspace packages of the working copy at
// root. It walks the monorepo's workspace globs, not every directory; a glob
// match counts as a project only if it contains a package.json.
func (d *Discovery) ListAll(ctx context.Context, root string) ([]Project, error) {
	globs, err := workspaceGlobs(root)
	if err != nil {
		return nil, err
	}
	dirs, err := expandGlobs(root, globs)
	if err != nil {
		return nil, err
	}
	d.logger.Debugf("found %d candidate project directories", len(dirs))

	var mu sync.Mutex
	projects := make([]Project, 0, len(dirs))
	eg, _ := errgroup.WithContext(ctx)
	for _, dir := range dirs {
		dir := dir
		eg.Go(func() error {
			p, err := readProject(root, dir)
			if err != nil {
				return fmt.Errorf("failed to read project %s: %w", dir, err)
			}
			mu.Lock()
			defer mu.Unlock()
			projects = append(projects, p)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Path < projects[j].Path
	})
	return projects, nil
}

// workspaceGlobs reads the monorepo's workspace declaration: package.json
// "workspaces" (array or {packages: [...]} form), falling back to
// pnpm-workspace.yaml.
func workspaceGlobs(root string) ([]string, error) {
	b, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err == nil {
		var manifest rootManifest
		if err := json.Unmarshal(b, &manifest); err != nil {
			return nil, fmt.Errorf("failed to parse root package.json: %w", err)
		}
		if len(manifest.Workspaces) > 0 {
			return parseWorkspacesField(manifest.Workspaces)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read root package.json: %w", err)
	}

	b, err = os.ReadFile(filepath.Join(root, "pnpm-workspace.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no workspace declaration found in %s (package.json workspaces or pnpm-workspace.yaml)", root)
		}
		return nil, fmt.Errorf("failed to read pnpm-workspace.yaml: %w", err)
	}
	var ws pnpmWorkspace
	if err := yaml.Unmarshal(b, &ws); err != nil {
		return nil, fmt.Errorf("failed to parse pnpm-workspace.yaml: %w", err)
	}
	if len(ws.Packages) == 0 {
		return nil, fmt.Errorf("pnpm-workspace.yaml declares no packages")
	}
	return ws.Packages, nil
}

func parseWorkspacesField(raw json.RawMessage) ([]string, error) {
	var globs []string
	if err := json.Unmarshal(raw, &globs); err == nil {
		return globs, nil
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("failed to parse workspaces field: %w", err)
	}
	return obj.Packages, nil
}

func expandGlobs(root string, globs []string) ([]string, error) {
	var dirs []string
	for _, g := range globs {
		matches, err := filepath.Glob(filepath.Join(root, filepath.FromSlash(g)))
		if err != nil {
			return nil, fmt.Errorf("failed to expand workspace glob %q: %w", g, err)
		}
		for _, m := range matches {
			if _, err := os.Stat(filepath.Join(m, "package.json")); err != nil {
				continue
			}
			rel, err := filepath.Rel(root, m)
			if err != nil {
				return nil, fmt.Errorf("failed to relativize %s: %w", m, err)
			}
			dirs = append(dirs, filepath.ToSlash(rel))
		}
	}
	return stringhelper.Deduplicate(dirs), nil
}

func readProject(root string, dir string) (Project, error) {
	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(dir), "package.json"))
	if err != nil {
		return Project{}, err
	}
	var manifest packageManifest
	if err := json.Unmarshal(b, &manifest); err != nil {
		return Project{}, fmt.Errorf("failed to parse package.json: %w", err)
	}
	p := Project{
		Path:         dir,
		Name:         manifest.Name,
		ChangelogDir: defaultChangelogDir,
	}
	if manifest.Changelog != nil {
		p.RequiresChangelog = manifest.Changelog.Required
		if manifest.Changelog.Dir != "" {
			p.ChangelogDir = manifest.Changelog.Dir
		}
	}
	return p, nil
}
