package logger

import "testing"

type TestLogger struct {
	t *testing.T
}

func (t *TestLogger) Errorf(format string, args ...interface{}) {
	t.t.Helper()
	t.t.Logf("[error] "+format, args...)
}

func (t *TestLogger) Debugf(format string, args ...interface{}) {
	t.t.Helper()
	t.t.Logf("[debug] "+format, args...)
}

func (t *TestLogger) Infof(format string, args ...interface{}) {
	t.t.Helper()
	t.t.Logf("[info] "+format, args...)
}

func NewTestLogger(t *testing.T) Logger {
	return &TestLogger{
		t: t,
	}
}
