package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tair/reclaimed-storefront/pkg/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// GormLogger sends GORM's SQL logging through the service logger so statements carry
// the trace and viewer fields of the request that issued them
type GormLogger struct {
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger maps a config level ("silent", "error", "warn", "info") to a GormLogger.
// Unknown levels log warnings.
func NewGormLogger(level string) *GormLogger {
	l := &GormLogger{slowThreshold: slowQueryThreshold}
	switch level {
	case "silent":
		l.level = gormlogger.Silent
	case "error":
		l.level = gormlogger.Error
	case "info":
		l.level = gormlogger.Info
	default:
		l.level = gormlogger.Warn
	}
	return l
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		logger.Info(ctx).Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		logger.Warn(ctx).Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		logger.Error(ctx).Msg(fmt.Sprintf(msg, args...))
	}
}

// Trace logs failed statements at error, slow ones at warn and, in info mode, every statement
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		logger.Error(ctx).Err(err).
			Str("sql", sql).
			Int64("rows", rows).
			Dur("elapsed", elapsed).
			Msg("Query failed")
	case elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		logger.Warn(ctx).
			Str("sql", sql).
			Int64("rows", rows).
			Dur("elapsed", elapsed).
			Dur("threshold", l.slowThreshold).
			Msg("Slow query")
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		logger.Info(ctx).
			Str("sql", sql).
			Int64("rows", rows).
			Dur("elapsed", elapsed).
			Msg("Query")
	}
}
