// Package logging builds the zap logger shared by every service.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Mode selects the encoder and level.
type Mode string

const (
	ModeProd Mode = "prod"
	ModeDev  Mode = "dev"
	ModeOff  Mode = "off"
)

// Options configures New.
type Options struct {
	Mode Mode

	// Path is the log file. The TUI owns the terminal, so the default
	// writes next to the database instead of stderr. Empty means stderr.
	Path string
}

// ModeFromEnv reads ZIBAO_LOG_MODE, defaulting to prod.
func ModeFromEnv() Mode {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ZIBAO_LOG_MODE"))) {
	case "dev", "development", "debug":
		return ModeDev
	case "off", "none", "0":
		return ModeOff
	default:
		return ModeProd
	}
}

// New builds a logger for opts.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	switch opts.Mode {
	case ModeOff:
		return zap.NewNop(), nil
	case ModeDev:
		cfg = zap.NewDevelopmentConfig()
	default:
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}

	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		cfg.OutputPaths = []string{opts.Path}
		cfg.ErrorOutputPaths = []string{opts.Path}
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
