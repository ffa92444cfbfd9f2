package logger

import "go.uber.org/zap"

type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (z *zapLogger) Errorf(s string, args ...interface{}) {
	z.sugar.Errorf(s, args...)
}

func (z *zapLogger) Debugf(format string, args ...interface{}) {
	z.sugar.Debugf(format, args...)
}

func (z *zapLogger) Infof(format string, args ...interface{}) {
	z.sugar.Infof(format, args...)
}

var _ Logger = (*zapLogger)(nil)

func NewZapLogger() (Logger, error) {
	z, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return &zapLogger{sugar: z.Sugar()}, nil
}
