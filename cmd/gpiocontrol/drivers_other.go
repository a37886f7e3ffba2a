// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build !linux

package main

import (
	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocontrol"
	"github.com/warthog618/go-gpiocontrol/internal/config"
)

func openCdev(_ config.DriverConfig, _ *gpiocontrol.Mode) (gpiocontrol.LineDriver, error) {
	return nil, errors.New("cdev driver requires linux")
}
