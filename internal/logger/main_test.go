package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/better-auth-admin/better-auth-admin/internal/logger"
)

func TestLogger(t *testing.T) {
	type testCase struct {
		name             string
		cfg              logger.Log
		shouldHaveOutPut bool
		outPutIsJSON     bool
	}

	testCases := []testCase{
		{
			name: "no logger enabled log level not set",
			cfg: logger.Log{
				LogLevel:    "",
				ServiceName: "test",
				AppName:     "test",
			},
			shouldHaveOutPut: false,
		},
		{
			name: "console enabled log level info",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
		},
		{
			name: "console enabled console writer enabled",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true, UseConsoleWriter: true},
			},
			shouldHaveOutPut: true,
		},
		{
			name: "console enabled console writer enabled trace",
			cfg: logger.Log{
				LogLevel:    "trace",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true, UseConsoleWriter: true},
			},
			shouldHaveOutPut: true,
		},
		{
			name: "console enabled console writer disabled info expect json",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true, UseConsoleWriter: false},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
		{
			name: "console enabled console writer disabled trace expect json stack",
			cfg: logger.Log{
				LogLevel:     "trace",
				ServiceName:  "test",
				AppName:      "test",
				ReportCaller: true,
				Console:      logger.Console{Enabled: true, UseConsoleWriter: false},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := testLoggerConfig(t, tc.cfg)
			t.Logf("out: %s", out)

			switch {
			case out == "" && tc.shouldHaveOutPut:
				t.Errorf("expected console output but got none")
			case out != "" && !tc.shouldHaveOutPut:
				t.Errorf("expected no console output but got: %s", out)
			case tc.outPutIsJSON:
				// split lines
				outSplit := strings.Split(out, "\n")
				// try to decode
				type Foo struct { //nolint:musttag
					App     string
					Level   string
					Message string
				}

				dummy := Foo{}

				for _, outLine := range outSplit {
					if outLine != "" {
						if err := json.Unmarshal([]byte(outLine), &dummy); err != nil {
							t.Errorf("expected json output but got: %s", out) //nolint:goerr113
						} else if dummy.App != tc.cfg.AppName {
							t.Errorf("expected app %q in every line, got %q", tc.cfg.AppName, dummy.App)
						}
					}
				}
			}
		})
	}
}

func alwaysErrFunc() error {
	return errors.New("a test error") //nolint:goerr113
}

func testLoggerConfig(t *testing.T, cfg logger.Log) string {
	t.Helper()
	// keep default std out
	stdout := os.Stdout
	stderr := os.Stderr

	// capture stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	os.Stderr = w

	err := logger.Init(cfg)
	if err != nil {
		t.Error(err)
	}

	log.Info().Msg("this info message should be seen...")
	log.Error().Err(alwaysErrFunc()).Msg("this err message should be seen...")
	log.Trace().Err(alwaysErrFunc()).Msg("this trace message should be seen...")

	outC := make(chan string)
	// copy the output in a separate goroutine so printing can't block indefinitely
	go func() {
		var buf bytes.Buffer
		_, err = io.Copy(&buf, r)
		if err != nil {
			t.Error(err)
		}
		outC <- buf.String()
	}()

	// back to normal state
	_ = w.Close()
	os.Stdout = stdout // restoring the real stdout
	os.Stderr = stderr // restoring the real stderr
	out := <-outC

	return out
}

func TestInitErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  logger.Log
		want error
	}{
		{name: "no service name", cfg: logger.Log{LogLevel: "info", AppName: "test"}, want: logger.ErrMissingServiceName},
		{name: "no app name", cfg: logger.Log{LogLevel: "info", ServiceName: "test"}, want: logger.ErrMissingAppName},
		{name: "unknown level", cfg: logger.Log{LogLevel: "loud", AppName: "test", ServiceName: "test"}, want: logger.ErrUnknownLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, logger.Init(tt.cfg), tt.want)
		})
	}

	assert.NoError(t, logger.Init(logger.Log{LogLevel: " WARN ", AppName: "test", ServiceName: "test"}))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func writeFailures(t *testing.T) float64 {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, f := range families {
		if f.GetName() == logger.WriteFailuresMetric {
			return f.GetMetric()[0].GetCounter().GetValue()
		}
	}

	t.Fatalf("metric %s is not registered", logger.WriteFailuresMetric)

	return 0
}

func TestWriteFailuresAreCounted(t *testing.T) {
	require.NoError(t, logger.Init(logger.Log{LogLevel: "info", AppName: "test", ServiceName: "test"}))

	before := writeFailures(t)

	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	log.Logger = zerolog.New(brokenWriter{})
	log.Info().Msg("lost")
	log.Warn().Msg("lost too")

	assert.InDelta(t, before+2, writeFailures(t), 0)
}

func TestFileLoggerSplitsByLevel(t *testing.T) {
	dir := t.TempDir()

	err := logger.Init(logger.Log{
		LogLevel:    "info",
		AppName:     "test",
		ServiceName: "test",
		File: logger.LogFile{
			Enabled: true,
			Path:    dir,
			Info:    logger.Rotation{File: "info.log", MaxSize: 1},
			Error:   logger.Rotation{File: "error.log", MaxSize: 1},
		},
	})
	require.NoError(t, err)

	log.Info().Msg("info line")
	log.Error().Msg("error line")
	log.Warn().Msg("warn line without a file")

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "info line")
	assert.NotContains(t, string(info), "error line")

	errs, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errs), "error line")
	assert.NotContains(t, string(errs), "warn line")
}

func TestRollingFile(t *testing.T) {
	assert.Nil(t, logger.RollingFile(t.TempDir(), logger.Rotation{}))

	dir := filepath.Join(t.TempDir(), "nested")
	w := logger.RollingFile(dir, logger.Rotation{File: "access.log"})
	require.NotNil(t, w)

	_, err := w.Write([]byte("hello\n"))
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "access.log"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(got))
}

func TestLevelWriterRoutes(t *testing.T) {
	var info, warn, errs, trace bytes.Buffer

	lw := &logger.LevelWriter{InfoWriter: &info, WarnWriter: &warn, ErrorWriter: &errs, TraceWriter: &trace}

	for _, l := range []zerolog.Level{zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel, zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.TraceLevel} {
		_, err := lw.WriteLevel(l, []byte(l.String()+" "))
		require.NoError(t, err)
	}

	n, err := lw.WriteLevel(zerolog.Disabled, []byte("x"))
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Equal(t, "debug info ", info.String())
	assert.Equal(t, "warn ", warn.String())
	assert.Equal(t, "error fatal ", errs.String())
	assert.Equal(t, "trace ", trace.String())
}
