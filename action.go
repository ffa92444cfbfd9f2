package main

import (
	"context"

	"go.uber.org/fx"

	"github.com/releasekit/changefile/logger"
	"github.com/releasekit/changefile/pipeline"
)

// Action allows using fx to run CLI actions
// Basically from https://github.com/uber-go/fx/issues/755
type Action struct {
	sh     fx.Shutdowner
	pipe   *pipeline.Pipeline
	logger logger.Logger
}

func newAction(lc fx.Lifecycle, sh fx.Shutdowner, pipe *pipeline.Pipeline, logger logger.Logger) *Action {
	act := &Action{
		sh:     sh,
		pipe:   pipe,
		logger: logger,
	}
	lc.Append(fx.Hook{
		OnStart: act.start,
	})

	return act
}

func (a *Action) start(_ context.Context) error {
	go a.run()
	return nil
}

func (a *Action) run() {
	a.logger.Debugf("Starting changelog automation")
	defer a.logger.Debugf("Exiting changelog automation")
	runErr := a.pipe.Run(context.Background())
	if runErr != nil {
		a.logger.Errorf("Failed to run changelog automation: %v", runErr)
		if err := a.sh.Shutdown(fx.ExitCode(1)); err != nil {
			a.logger.Errorf("Failed to shutdown: %v", err)
		}
		return
	}
	if err := a.sh.Shutdown(); err != nil {
		a.logger.Errorf("Failed to shutdown: %v", err)
	}
}
