package logger

import (
	"fmt"

	"github.com/sethvargo/go-githubactions"

	"github.com/releasekit/changefile/config"
)

type Logger interface {
	Infof(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Errorf(s string, args ...interface{})
}

// New picks the logger implementation for this run: GitHub workflow commands
// when running inside Actions, zap otherwise.
func New(cfg config.Config, action *githubactions.Action) (Logger, error) {
	if cfg.RunningInCI {
		return NewGhLogger(action), nil
	}
	l, err := NewZapLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}
	return l, nil
}
