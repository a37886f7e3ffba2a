// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package periph

import "github.com/warthog618/go-gpiocontrol"

// Option defines the interface required to provide an option to New.
type Option interface {
	applyOption(*Driver)
}

// ModeOption preselects the addressing mode.
type ModeOption gpiocontrol.Mode

// WithMode returns an option that preselects the addressing mode reported by
// Mode.
func WithMode(m gpiocontrol.Mode) ModeOption {
	return ModeOption(m)
}

func (o ModeOption) applyOption(d *Driver) {
	m := gpiocontrol.Mode(o)
	d.mode = &m
}
