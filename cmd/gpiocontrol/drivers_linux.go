// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux

package main

import (
	"github.com/warthog618/go-gpiocontrol"
	"github.com/warthog618/go-gpiocontrol/driver/cdev"
	"github.com/warthog618/go-gpiocontrol/internal/config"
)

func openCdev(cfg config.DriverConfig, mode *gpiocontrol.Mode) (gpiocontrol.LineDriver, error) {
	if _, err := cdev.Probe(cfg.Chip); err != nil {
		return nil, err
	}
	opts := []cdev.Option{}
	if cfg.Consumer != "" {
		opts = append(opts, cdev.WithConsumer(cfg.Consumer))
	}
	if mode != nil {
		opts = append(opts, cdev.WithMode(*mode))
	}
	return cdev.New(cfg.Chip, opts...), nil
}
