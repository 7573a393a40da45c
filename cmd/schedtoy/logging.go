package main

import (
	"go.uber.org/zap"

	lg "github.com/Andrej220/go-utils/zlog"
)

// zlogger exposes the CLI's zap logger through the zlog interface the
// workqueue package reads from its context.
type zlogger struct{ l *zap.Logger }

var _ lg.ZLogger = zlogger{}

func (z zlogger) Debug(msg string, fields ...lg.Field) { z.l.Debug(msg, fields...) }
func (z zlogger) Info(msg string, fields ...lg.Field)  { z.l.Info(msg, fields...) }
func (z zlogger) Warn(msg string, fields ...lg.Field)  { z.l.Warn(msg, fields...) }
func (z zlogger) Error(msg string, fields ...lg.Field) { z.l.Error(msg, fields...) }
func (z zlogger) With(fields ...lg.Field) lg.ZLogger   { return zlogger{z.l.With(fields...)} }
func (z zlogger) Sync() error                          { return z.l.Sync() }
