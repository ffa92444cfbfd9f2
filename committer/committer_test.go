package committer

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/releasekit/changefile/logger"
	"github.com/releasekit/changefile/runner"
)

func dirtyStatus(c runner.Call) (string, error) {
	if c.Is("git", "status", "--porcelain") {
		return " M packages/core/changelog/fix-frobnicator\n", nil
	}
	return "", nil
}

func TestCommitAndPushCleanTree(t *testing.T) {
	fake := &runner.Fake{}
	c := New(fake, logger.NewTestLogger(t))
	res, err := c.CommitAndPush(context.Background(), "/tmp/wc", "fix/frobnicator", true)
	require.NoError(t, err)
	assert.False(t, res.Committed)
	require.Len(t, fake.Calls, 1, "a clean tree must short-circuit before any mutation")
	assert.True(t, fake.Calls[0].Is("git", "status", "--porcelain"))
}

func TestCommitAndPushCI(t *testing.T) {
	fake := &runner.Fake{OutputFn: dirtyStatus}
	c := New(fake, logger.NewTestLogger(t))
	res, err := c.CommitAndPush(context.Background(), "/tmp/wc", "fix/frobnicator", true)
	require.NoError(t, err)
	assert.True(t, res.Committed)

	require.Len(t, fake.Calls, 7)
	assert.True(t, fake.Calls[0].Is("git", "status", "--porcelain"))
	assert.True(t, fake.Calls[1].Is("git", "config", "user.name"))
	assert.True(t, fake.Calls[2].Is("git", "config", "user.email"))
	assert.True(t, fake.Calls[3].Is("git", "config", "core.hooksPath", os.DevNull))
	assert.True(t, fake.Calls[4].Is("git", "add", "-A"))
	assert.True(t, fake.Calls[5].Is("git", "commit", "-m", "Adding changelog from automation."))
	assert.True(t, fake.Calls[6].Is("git", "push", "origin", "HEAD:fix/frobnicator"))
	for _, call := range fake.Calls {
		assert.Equal(t, "/tmp/wc", call.Dir)
		assert.NotContains(t, call.Args, "--global", "identity must stay scoped to the clone")
	}
}

func TestCommitAndPushLocalSkipsIdentity(t *testing.T) {
	fake := &runner.Fake{OutputFn: dirtyStatus}
	c := New(fake, logger.NewTestLogger(t))
	_, err := c.CommitAndPush(context.Background(), "/tmp/wc", "main", false)
	require.NoError(t, err)
	for _, call := range fake.Calls {
		assert.False(t, call.Is("git", "config", "user.name"))
		assert.False(t, call.Is("git", "config", "user.email"))
	}
}

func TestCommitAndPushPushFailure(t *testing.T) {
	fake := &runner.Fake{
		OutputFn: dirtyStatus,
		RunErr: func(c runner.Call) error {
			if c.Is("git", "push") {
				return errors.New("non-fast-forward")
			}
			return nil
		},
	}
	c := New(fake, logger.NewTestLogger(t))
	res, err := c.CommitAndPush(context.Background(), "/tmp/wc", "main", true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPush))
	assert.True(t, res.Committed, "the commit happened even though the push was rejected")
}
