// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux

package cdev

import "github.com/warthog618/go-gpiocontrol"

// Option defines the interface required to provide an option to New.
type Option interface {
	applyOption(*Driver)
}

// ConsumerOption sets the consumer label attached to requested lines.
type ConsumerOption string

// WithConsumer returns an option that sets the consumer label reported for
// requested lines.
//
// The default is "gpiocontrol".
func WithConsumer(consumer string) ConsumerOption {
	return ConsumerOption(consumer)
}

func (o ConsumerOption) applyOption(d *Driver) {
	d.consumer = string(o)
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
