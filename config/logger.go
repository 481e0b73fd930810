package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger builds the application logger: console output plus a rotated
// log file when Log.File is set. The result is also installed as log.Logger.
// If the log directory cannot be created the logger stays console-only.
func SetupLogger(cfg LogConfig) zerolog.Logger {
	out, fileErr := logWriter(cfg, os.Stdout)

	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	logger := zerolog.New(out).With().Timestamp().Logger()
	log.Logger = logger

	if fileErr != nil {
		logger.Warn().Err(fileErr).Str("file", cfg.File).Msg("file logging disabled, using console only")
	}
	return logger
}

// logWriter returns the console writer, teed into a lumberjack file when
// cfg.File is set and its directory is usable
func logWriter(cfg LogConfig, console io.Writer) (io.Writer, error) {
	var out io.Writer = zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}
	if cfg.File == "" {
		return out, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return out, fmt.Errorf("creating log directory: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    50, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	return zerolog.MultiLevelWriter(out, file), nil
}
