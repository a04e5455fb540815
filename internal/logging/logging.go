// Package logging configures the process-wide logger.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Options control logger construction. Verbose wins over Quiet when both
// are set.
type Options struct {
	Verbose bool
	Quiet   bool
	NoColor bool
	// Output defaults to os.Stderr, keeping stdout free for tool output
	// and reports.
	Output io.Writer
}

// New builds the CLI logger: plain text lines without timestamps, level
// gated by the verbosity flags.
func New(opts Options) *logrus.Logger {
	log := logrus.New()

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	log.SetOutput(out)

	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    opts.NoColor,
		DisableQuote:     true,
	})

	switch {
	case opts.Verbose:
		log.SetLevel(logrus.DebugLevel)
	case opts.Quiet:
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
