package logger

import "github.com/sethvargo/go-githubactions"

type ghLogger struct {
	action *githubactions.Action
}

func (g *ghLogger) Errorf(s string, args ...interface{}) {
	g.action.Errorf(s, args...)
}

func (g *ghLogger) Debugf(format string, args ...interface{}) {
	g.action.Debugf(format, args...)
}

func (g *ghLogger) Infof(format string, args ...interface{}) {
	g.action.Infof(format, args...)
}

var _ Logger = (*ghLogger)(nil)

func NewGhLogger(action *githubactions.Action) Logger {
	return &ghLogger{
		action: action,
	}
}
