// Package logging configures structured logging for the pipeline.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a structured logger tagged with the service name. Unknown
// levels fall back to info; format is "text" or "json".
func New(level, format string) *logrus.Entry {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log.WithField("service", "job-radar")
}

// Discard returns a logger that drops everything; used in tests.
func Discard() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}
