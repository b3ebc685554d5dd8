package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	// ErrMissingAppName is returned by Init when Log.AppName is empty.
	ErrMissingAppName = errors.New("logger: Log.AppName is required")

	// ErrMissingServiceName is returned by Init when Log.ServiceName is empty.
	ErrMissingServiceName = errors.New("logger: Log.ServiceName is required")

	// ErrUnknownLevel is returned by Init for a level zerolog does not know.
	ErrUnknownLevel = errors.New("logger: unknown log level")
)

// WriteFailuresMetric is the counter of events no writer accepted.
const WriteFailuresMetric = "log_write_failures_total"

var writeFailures = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
	Name: WriteFailuresMetric,
	Help: "Number of log events that could not be written.",
})

// validate checks cfg and returns the parsed level.
func validate(cfg Log) (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel)))
	if err != nil {
		return zerolog.NoLevel, errors.Wrapf(ErrUnknownLevel, "%q", cfg.LogLevel)
	}

	switch {
	case cfg.ServiceName == "":
		return zerolog.NoLevel, ErrMissingServiceName
	case cfg.AppName == "":
		return zerolog.NoLevel, ErrMissingAppName
	}

	return level, nil
}

// reportWriteFailure is installed as zerolog.ErrorHandler. A full disk or a
// closed console must not go unnoticed, so the drop is counted and printed.
func reportWriteFailure(err error) {
	writeFailures.Inc()

	_, _ = fmt.Fprintf(os.Stderr, "logger: dropped log event: %v\n", err)
}
