// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiocontrol

import "log/slog"

// Option defines the interface required to provide an option to New.
type Option interface {
	applyOption(*Controller)
}

// LoggerOption is an option that sets the logger used by the Controller.
type LoggerOption struct {
	log *slog.Logger
}

// WithLogger returns an option that sets the logger used by the Controller.
//
// By default the Controller discards its log output.
func WithLogger(log *slog.Logger) LoggerOption {
	return LoggerOption{log}
}

func (o LoggerOption) applyOption(c *Controller) {
	if o.log != nil {
		c.log = o.log
	}
}
