package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

func New() *zap.SugaredLogger {
	var (
		logger *zap.Logger
		err    error
	)
	opts := []zap.Option{
		zap.AddStacktrace(zap.ErrorLevel),
	}

	if strings.ToLower(os.Getenv("TRMNL_ENV")) == "dev" {
		logger, err = zap.NewDevelopment(opts...)
	} else {
		cfg := zap.NewProductionConfig()
		// keep operational logs on stderr so payload JSON printed on
		// stdout stays pipeable
		cfg.OutputPaths = []string{"stderr"}
		logger, err = cfg.Build(opts...)
	}

	if err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}

	return logger.Sugar()
}

var sugar = New()

func Debug(format string, args ...interface{}) {
	sugar.Debugf(format, args...)
}

func Info(format string, args ...interface{}) {
	sugar.Infof(format, args...)
}

func Warn(format string, args ...interface{}) {
	sugar.Warnf(format, args...)
}

func Error(err error) {
	sugar.Error(err)
}

func init() {
	zap.ReplaceGlobals(sugar.Desugar())
}
