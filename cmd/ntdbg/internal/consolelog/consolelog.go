// Package consolelog configures logrus the way the CLI wants it: plain
// text with a colored console writer when attached to a real terminal,
// and the structured JSON formatter when output is piped or redirected.
package consolelog

import (
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Configure sets logger's output and formatter based on whether stdout
// is a terminal, and applies the requested level.
func Configure(logger *logrus.Logger, level logrus.Level) {
	logger.SetLevel(level)

	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		logger.SetOutput(colorable.NewColorableStdout())
		logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   true,
			FullTimestamp: true,
		})
		return
	}

	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
}
