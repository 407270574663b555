package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gucli/internal/domain"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. It returns a
// *ValidationError when one or more problems are found, allowing callers to
// inspect all issues at once.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateCommands(cfg, ve)
	validateLogger(cfg, ve)
	validateTracer(cfg, ve)
	validateNotify(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateCommands(cfg *Config, ve *ValidationError) {
	seen := make(map[string]int, len(cfg.Commands))
	for i, cc := range cfg.Commands {
		if cc.Command == "" {
			ve.Add("commands[%d]: command must not be empty", i)
			continue
		}
		if prev, dup := seen[cc.Command]; dup {
			ve.Add("commands[%d]: duplicate command %q (first defined at commands[%d])", i, cc.Command, prev)
		} else {
			seen[cc.Command] = i
		}
		if !domain.Shell(cc.Shell).Valid() {
			ve.Add("commands[%d]: unknown shell %q (expected bash, zsh, fish or empty)", i, cc.Shell)
		}
		if utf8.RuneCountInString(cc.Icon) > domain.MaxIconRunes {
			ve.Add("commands[%d]: icon %q exceeds %d characters", i, cc.Icon, domain.MaxIconRunes)
		}
	}
}

func validateLogger(cfg *Config, ve *ValidationError) {
	switch strings.ToLower(cfg.Logger.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		ve.Add("logger.level %q is not a valid level", cfg.Logger.Level)
	}
	switch strings.ToLower(cfg.Logger.Format) {
	case "", "text", "json":
	default:
		ve.Add("logger.format %q is not valid (expected text or json)", cfg.Logger.Format)
	}
}

func validateTracer(cfg *Config, ve *ValidationError) {
	if !cfg.Tracer.Enabled {
		return
	}
	switch cfg.Tracer.Exporter {
	case "", "noop", "stdout":
	default:
		ve.Add("tracer.exporter %q is not supported (expected noop or stdout)", cfg.Tracer.Exporter)
	}
}

func validateNotify(cfg *Config, ve *ValidationError) {
	switch cfg.Notify.Backend {
	case "", "auto", "beeep", "notify-send":
	default:
		ve.Add("notify.backend %q is not supported (expected auto, beeep or notify-send)", cfg.Notify.Backend)
	}
}
