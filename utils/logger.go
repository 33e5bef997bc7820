package utils

import (
	"context"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type loggerKey struct{}

// InitLogger configures the global logrus logger to write JSON to stdout and
// to a rotating file. An empty filePath logs to stdout only.
func InitLogger(level, filePath string) {
	log.SetFormatter(&log.JSONFormatter{})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)

	if filePath == "" {
		log.SetOutput(os.Stdout)
		return
	}
	_ = os.MkdirAll(filepath.Dir(filePath), 0o755)
	rot := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rot))
}

// WithLogger stores a request-scoped entry in ctx.
func WithLogger(ctx context.Context, l *log.Entry) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// Logger returns the entry stored in ctx, or one derived from the global logger.
func Logger(ctx context.Context) *log.Entry {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*log.Entry); ok && l != nil {
			return l
		}
	}
	return log.NewEntry(log.StandardLogger())
}
