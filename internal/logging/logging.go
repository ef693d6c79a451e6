// Package logging builds the zap logger used for diagnostics. Diagnostics go
// to stderr so stdout only carries the diff report.
package logging

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const DefaultLevel = "warn"

// New returns a console logger writing to w at the named level.
func New(level string, w io.Writer) (*zap.SugaredLogger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		lvl,
	)
	return zap.New(core).Sugar(), nil
}

// ParseLevel accepts debug, info, warn and error; empty means DefaultLevel.
func ParseLevel(level string) (zapcore.Level, error) {
	if strings.TrimSpace(level) == "" {
		level = DefaultLevel
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return lvl, errors.WithHint(
			errors.Wrapf(err, "invalid log level %q", level),
			"use one of debug, info, warn, error",
		)
	}
	return lvl, nil
}

// Nop is used where no logger was supplied.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
