// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package main

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocontrol"
	"github.com/warthog618/go-gpiocontrol/driver/fake"
	"github.com/warthog618/go-gpiocontrol/driver/periph"
	"github.com/warthog618/go-gpiocontrol/driver/rpio"
	"github.com/warthog618/go-gpiocontrol/internal/config"
)

// openDriver opens the configured driver, falling back to the fake driver if
// the hardware is unavailable and fallback is enabled.
func openDriver(cfg config.DriverConfig, log *slog.Logger) (gpiocontrol.LineDriver, error) {
	var mode *gpiocontrol.Mode
	if cfg.Mode != "" {
		m, err := gpiocontrol.ParseMode(cfg.Mode)
		if err != nil {
			return nil, err
		}
		mode = &m
	}
	d, err := openHardware(cfg, mode)
	if err == nil {
		log.Info("opened driver", "type", cfg.Type)
		return d, nil
	}
	if !cfg.Fallback {
		return nil, err
	}
	log.Warn("hardware unavailable, using fake driver", "type", cfg.Type, "error", err)
	return newFake(mode), nil
}

func openHardware(cfg config.DriverConfig, mode *gpiocontrol.Mode) (gpiocontrol.LineDriver, error) {
	switch cfg.Type {
	case "cdev":
		return openCdev(cfg, mode)
	case "periph":
		var opts []periph.Option
		if mode != nil {
			opts = append(opts, periph.WithMode(*mode))
		}
		d, err := periph.New(opts...)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "rpio":
		var opts []rpio.Option
		if mode != nil {
			opts = append(opts, rpio.WithMode(*mode))
		}
		d, err := rpio.New(opts...)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "fake":
		return newFake(mode), nil
	}
	return nil, errors.Errorf("unknown driver type '%s'", cfg.Type)
}

func newFake(mode *gpiocontrol.Mode) *fake.Driver {
	if mode != nil {
		return fake.New(fake.WithMode(*mode))
	}
	return fake.New()
}
