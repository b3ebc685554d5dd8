package gorm_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	adapter "github.com/better-auth-admin/better-auth-admin/internal/logger/adapter/gorm"
)

func newLogger(buf *bytes.Buffer, slow time.Duration) *adapter.Logger {
	return adapter.New(slow).WithLogger(zerolog.New(buf).Level(zerolog.DebugLevel))
}

func query() (string, int64) { return "SELECT 1", 1 }

func TestTrace(t *testing.T) {
	tests := []struct {
		name  string
		level gormlogger.LogLevel
		slow  time.Duration
		begin time.Duration
		err   error
		want  string
	}{
		{name: "silent", level: gormlogger.Silent, err: errors.New("boom")},
		{name: "error", level: gormlogger.Error, err: errors.New("boom"), want: `"level":"error"`},
		{name: "not found is quiet", level: gormlogger.Warn, err: gorm.ErrRecordNotFound},
		{name: "slow query", level: gormlogger.Warn, slow: time.Millisecond, begin: time.Second, want: `"message":"slow query"`},
		{name: "fast query at warn", level: gormlogger.Warn, slow: time.Minute},
		{name: "info traces every query", level: gormlogger.Info, want: `"sql":"SELECT 1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			l := newLogger(&buf, tt.slow).LogMode(tt.level)
			l.Trace(context.Background(), time.Now().Add(-tt.begin), query, tt.err)

			if tt.want == "" {
				assert.Empty(t, buf.String())

				return
			}

			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestMessages(t *testing.T) {
	var buf bytes.Buffer

	l := newLogger(&buf, 0).LogMode(gormlogger.Warn)
	l.Info(context.Background(), "hidden %d", 1)
	l.Warn(context.Background(), "shown %d", 2)
	l.Error(context.Background(), "shown %d", 3)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 2")
	assert.Contains(t, buf.String(), "shown 3")
}
