// Package gorm adapts zerolog to the gorm logger interface.
package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Keed0303/ecommerce-starter-app/internal/logger"
)

// Logger writes gorm messages and SQL traces to zerolog.
type Logger struct {
	zl            *zerolog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// New returns a gorm logger derived from the log config.
// Statements are traced at debug level when LogSQL is set, record not found errors are ignored.
func New(cfg logger.Log) *Logger {
	level := gormlogger.Warn
	if cfg.LogSQL {
		level = gormlogger.Info
	}

	return &Logger{
		level:         level,
		slowThreshold: time.Duration(cfg.SlowQueryMS) * time.Millisecond,
	}
}

// WithLogger uses zl instead of the global logger.
func (l *Logger) WithLogger(zl zerolog.Logger) *Logger {
	clone := *l
	clone.zl = &zl

	return &clone
}

func (l *Logger) logger() *zerolog.Logger {
	if l.zl != nil {
		return l.zl
	}

	return &log.Logger
}

// LogMode implements gormlogger.Interface.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level

	return &clone
}

// Info implements gormlogger.Interface.
func (l *Logger) Info(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.logger().Info().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Warn implements gormlogger.Interface.
func (l *Logger) Warn(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.logger().Warn().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Error implements gormlogger.Interface.
func (l *Logger) Error(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.logger().Error().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Trace implements gormlogger.Interface.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	var event *zerolog.Event

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		event = l.logger().Error().Err(err)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		event = l.logger().Warn().Dur("threshold", l.slowThreshold)
	case l.level >= gormlogger.Info:
		event = l.logger().Debug()
	default:
		return
	}

	sql, rows := fc()

	event.Str("component", "gorm").
		Dur("elapsed", elapsed).
		Int64("rows", rows).
		Str("sql", sql).
		Msg("sql")
}
