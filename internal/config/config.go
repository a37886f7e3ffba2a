// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package config loads the gpiocontrol daemon configuration.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the top-level daemon configuration.
type Config struct {
	Logger   LoggerConfig   `yaml:"logger"`
	Driver   DriverConfig   `yaml:"driver"`
	Settings SettingsConfig `yaml:"settings"`
	API      APIConfig      `yaml:"api"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
	Output string `yaml:"output"` // stdout, stderr, or a file path
}

// DriverConfig selects the line driver.
type DriverConfig struct {
	Type     string `yaml:"type"`     // cdev, periph, rpio, fake
	Chip     string `yaml:"chip"`     // cdev only
	Consumer string `yaml:"consumer"` // cdev only
	// Mode preselects the addressing mode.  Empty leaves the driver to
	// report none, so the controller selects logical.
	Mode string `yaml:"mode,omitempty"`
	// Fallback to the fake driver if the hardware driver can't be opened.
	Fallback bool `yaml:"fallback"`
}

// SettingsConfig locates the switch configuration file.
type SettingsConfig struct {
	Path string `yaml:"path"`
}

// APIConfig holds command API settings.
type APIConfig struct {
	Addr           string        `yaml:"addr"`
	Tokens         []TokenConfig `yaml:"tokens,omitempty"`
	RequestsPerMin int           `yaml:"requests_per_min"`
	Burst          int           `yaml:"burst"`
}

// TokenConfig holds a single API token.
type TokenConfig struct {
	Token string   `yaml:"token"`
	Name  string   `yaml:"name"`
	Roles []string `yaml:"roles"`
}

// Defaults returns the configuration used for anything not set in the file.
func Defaults() *Config {
	return &Config{
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Driver: DriverConfig{
			Type:     "cdev",
			Chip:     "gpiochip0",
			Consumer: "gpiocontrol",
		},
		Settings: SettingsConfig{
			Path: "gpio.yaml",
		},
		API: APIConfig{
			Addr:           "127.0.0.1:5080",
			RequestsPerMin: 600,
			Burst:          20,
		},
	}
}

// Load reads a YAML config file, applies environment overrides and validates
// the result.
//
// A missing file is not an error; the defaults are used.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "read config")
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "parse config")
		}
	}
	ApplyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides maps GPIOCONTROL_* environment variables to config fields.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GPIOCONTROL_LOG_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("GPIOCONTROL_LOG_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("GPIOCONTROL_DRIVER"); v != "" {
		cfg.Driver.Type = v
	}
	if v := os.Getenv("GPIOCONTROL_CHIP"); v != "" {
		cfg.Driver.Chip = v
	}
	if v := os.Getenv("GPIOCONTROL_MODE"); v != "" {
		cfg.Driver.Mode = v
	}
	if v := os.Getenv("GPIOCONTROL_SETTINGS"); v != "" {
		cfg.Settings.Path = v
	}
	if v := os.Getenv("GPIOCONTROL_API_ADDR"); v != "" {
		cfg.API.Addr = v
	}
	if v := os.Getenv("GPIOCONTROL_API_TOKEN"); v != "" {
		cfg.API.Tokens = append(cfg.API.Tokens, TokenConfig{
			Token: v,
			Name:  "env",
			Roles: []string{"admin"},
		})
	}
	if v := os.Getenv("GPIOCONTROL_API_REQUESTS_PER_MIN"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.API.RequestsPerMin = n
		}
	}
}
