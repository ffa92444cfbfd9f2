package logger

import (
	"bytes"

	"go.uber.org/fx/fxevent"
)

type FxLogger struct {
	logger Logger
}

func (f *FxLogger) LogEvent(event fxevent.Event) {
	var buf bytes.Buffer
	cl := fxevent.ConsoleLogger{W: &buf}
	cl.LogEvent(event)
	switch e := event.(type) {
	case *fxevent.Started:
		if e.Err != nil {
			f.logger.Errorf("Failed to start: %v", e.Err)
		} else {
			f.logger.Debugf("Started")
		}
	case *fxevent.Invoked:
		if e.Err != nil {
			f.logger.Errorf("Failed to invoke: %v", e.Err)
		} else {
			f.logger.Debugf("Invoked")
		}
	default:
		if buf.Len() > 0 {
			f.logger.Debugf(buf.String())
		}
	}
}

func NewFxLogger(logger Logger) fxevent.Logger {
	return &FxLogger{
		logger: logger,
	}
}
