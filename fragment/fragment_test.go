package fragment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/releasekit/changefile/directive"
	"github.com/releasekit/changefile/logger"
	"github.com/releasekit/changefile/project"
	"github.com/releasekit/changefile/runner"
	"github.com/releasekit/changefile/workspace"
)

func TestRemoveAll(t *testing.T) {
	root := t.TempDir()
	projects := []project.Project{
		{Path: "packages/core", RequiresChangelog: true, ChangelogDir: "changelog"},
		{Path: "packages/util", RequiresChangelog: false, ChangelogDir: "changelog"},
		{Path: "docs", RequiresChangelog: false, ChangelogDir: "changelog"},
	}
	// The stale fragment exists in two projects, including one that does not
	// require a changelog for this run.
	for _, p := range []string{"packages/core", "packages/util"} {
		dir := filepath.Join(root, filepath.FromSlash(p), "changelog")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "fix-frobnicator"), []byte("stale"), 0o644))
	}

	r := NewReconciler(logger.NewTestLogger(t))
	require.NoError(t, r.RemoveAll(root, projects, "fix-frobnicator"))

	for _, p := range []string{"packages/core", "packages/util"} {
		_, err := os.Stat(filepath.Join(root, filepath.FromSlash(p), "changelog", "fix-frobnicator"))
		assert.True(t, os.IsNotExist(err), "fragment under %s should be gone", p)
	}
}

func TestRemoveAllMissingFragmentsAreFine(t *testing.T) {
	root := t.TempDir()
	projects := []project.Project{
		{Path: "packages/core", ChangelogDir: "changelog"},
	}
	r := NewReconciler(logger.NewTestLogger(t))
	require.NoError(t, r.RemoveAll(root, projects, "never-existed"))
}

func TestInstallDeps(t *testing.T) {
	t.Run("fresh clone installs once", func(t *testing.T) {
		fake := &runner.Fake{}
		g := NewGenerator(fake, logger.NewTestLogger(t))
		wc := &workspace.WorkingCopy{Path: "/tmp/wc"}
		require.NoError(t, g.InstallDeps(context.Background(), wc))
		require.Len(t, fake.Calls, 1)
		assert.True(t, fake.Calls[0].Is("yarn", "install", "--frozen-lockfile"))
		assert.Equal(t, "/tmp/wc", fake.Calls[0].Dir)
	})
	t.Run("preinstalled working copy is skipped", func(t *testing.T) {
		fake := &runner.Fake{}
		g := NewGenerator(fake, logger.NewTestLogger(t))
		wc := &workspace.WorkingCopy{Path: "/tmp/wc", Preinstalled: true}
		require.NoError(t, g.InstallDeps(context.Background(), wc))
		assert.Empty(t, fake.Calls)
	})
}

func TestGenerate(t *testing.T) {
	wc := &workspace.WorkingCopy{Path: "/tmp/wc"}
	projects := []project.Project{
		{Path: "packages/a", ChangelogDir: "changelog"},
		{Path: "packages/b", ChangelogDir: "changelog"},
	}
	d := directive.Directive{
		AutomationRequested: true,
		Significance:        directive.SignificancePatch,
		Type:                directive.TypeFixed,
		Message:             `Fix "quoting" $(and) injection attempts`,
	}

	t.Run("arguments stay structured", func(t *testing.T) {
		fake := &runner.Fake{}
		g := NewGenerator(fake, logger.NewTestLogger(t))
		succeeded := g.Generate(context.Background(), wc, projects[:1], d, "fix-frobnicator")
		require.Len(t, succeeded, 1)
		require.Len(t, fake.Calls, 1)
		call := fake.Calls[0]
		assert.Equal(t, filepath.Join("/tmp/wc", "packages", "a"), call.Dir)
		assert.Equal(t, "yarn", call.Name)
		assert.Equal(t, []string{
			"changelogger", "add",
			"--file-name", "fix-frobnicator",
			"--significance", "patch",
			"--type", "fixed",
			"--message", `Fix "quoting" $(and) injection attempts`,
		}, call.Args)
	})
	t.Run("one failure does not stop the rest", func(t *testing.T) {
		fake := &runner.Fake{
			RunErr: func(c runner.Call) error {
				if c.Dir == filepath.Join("/tmp/wc", "packages", "a") {
					return errors.New("generator exploded")
				}
				return nil
			},
		}
		g := NewGenerator(fake, logger.NewTestLogger(t))
		succeeded := g.Generate(context.Background(), wc, projects, d, "fix-frobnicator")
		require.Len(t, succeeded, 1)
		assert.Equal(t, "packages/b", succeeded[0].Path)
		assert.Len(t, fake.Calls, 2, "the failing project must not abort the loop")
	})
	t.Run("empty message and comment are omitted", func(t *testing.T) {
		fake := &runner.Fake{}
		g := NewGenerator(fake, logger.NewTestLogger(t))
		bare := directive.Directive{Significance: directive.SignificanceMinor, Type: directive.TypeAdded}
		g.Generate(context.Background(), wc, projects[:1], bare, "f")
		require.Len(t, fake.Calls, 1)
		assert.NotContains(t, fake.Calls[0].Args, "--message")
		assert.NotContains(t, fake.Calls[0].Args, "--comment")
	})
}
