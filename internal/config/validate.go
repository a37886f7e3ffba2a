// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/warthog618/go-gpiocontrol"
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
func (v *ValidationError) Add(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness, returning a
// *ValidationError listing every problem found.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateLogger(cfg, ve)
	validateDriver(cfg, ve)
	validateAPI(cfg, ve)
	if cfg.Settings.Path == "" {
		ve.Add("settings.path must not be empty")
	}
	if ve.HasErrors() {
		return ve
	}
	return nil
}

var validLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

func validateLogger(cfg *Config, ve *ValidationError) {
	if !validLevels[strings.ToLower(cfg.Logger.Level)] {
		ve.Add("logger.level %q is not one of debug, info, warn, error", cfg.Logger.Level)
	}
	switch strings.ToLower(cfg.Logger.Format) {
	case "text", "json":
	default:
		ve.Add("logger.format %q is not one of text, json", cfg.Logger.Format)
	}
}

func validateDriver(cfg *Config, ve *ValidationError) {
	switch cfg.Driver.Type {
	case "cdev":
		if cfg.Driver.Chip == "" {
			ve.Add("driver.chip must not be empty for the cdev driver")
		}
	case "periph", "rpio", "fake":
	default:
		ve.Add("driver.type %q is not one of cdev, periph, rpio, fake", cfg.Driver.Type)
	}
	if cfg.Driver.Mode != "" {
		if _, err := gpiocontrol.ParseMode(cfg.Driver.Mode); err != nil {
			ve.Add("driver.mode: %v", err)
		}
	}
}

func validateAPI(cfg *Config, ve *ValidationError) {
	if cfg.API.Addr == "" {
		return
	}
	if _, _, err := net.SplitHostPort(cfg.API.Addr); err != nil {
		ve.Add("api.addr %q: %v", cfg.API.Addr, err)
	}
	for i, t := range cfg.API.Tokens {
		if t.Token == "" {
			ve.Add("api.tokens[%d].token must not be empty", i)
		}
	}
	if cfg.API.RequestsPerMin <= 0 {
		ve.Add("api.requests_per_min must be > 0")
	}
	if cfg.API.Burst <= 0 {
		ve.Add("api.burst must be > 0")
	}
}
