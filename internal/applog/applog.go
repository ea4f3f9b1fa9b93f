// Package applog provides the logging abstraction used throughout the
// simulation: a small Logger interface with a zap-backed implementation for
// normal operation and a no-op implementation for tests and embedding.
// Restyled from Gekko3D-gekko's Logger/DefaultLogger/nopLogger trio
// (logging.go), swapping the stdlib *log.Logger backend for go.uber.org/zap.
package applog

import (
	"sync"

	"go.uber.org/zap"
)

// Logger is the leveled logging contract every package in this module
// depends on, never the concrete zap type directly.
type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// ZapLogger backs Logger with a go.uber.org/zap.SugaredLogger.
type ZapLogger struct {
	mu    sync.Mutex
	debug bool
	sugar *zap.SugaredLogger
}

// NewZapLogger builds a production zap logger tagged with component, at the
// requested initial debug verbosity.
func NewZapLogger(component string, debug bool) (*ZapLogger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &ZapLogger{
		debug: debug,
		sugar: base.Sugar().Named(component),
	}, nil
}

func (l *ZapLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *ZapLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()
}

func (l *ZapLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.sugar.Debugf(format, args...)
}

func (l *ZapLogger) Infof(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *ZapLogger) Warnf(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *ZapLogger) Errorf(format string, args ...any) { l.sugar.Errorf(format, args...) }

// Sync flushes any buffered log entries.
func (l *ZapLogger) Sync() error { return l.sugar.Sync() }

type nopLogger struct{}

// NewNopLogger returns a Logger that discards everything, the fallback the
// driver falls back to when no zap logger was configured.
func NewNopLogger() Logger { return &nopLogger{} }

func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)              {}
func (n *nopLogger) Debugf(format string, args ...any)  {}
func (n *nopLogger) Infof(format string, args ...any)   {}
func (n *nopLogger) Warnf(format string, args ...any)   {}
func (n *nopLogger) Errorf(format string, args ...any)  {}
