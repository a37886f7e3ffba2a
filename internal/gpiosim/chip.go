// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiosim

import (
	"fmt"
	"path"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocontrol"
)

// Chip provides the kernel side view of a simulated gpiochip.
type Chip struct {
	// The path to the chip in /dev
	devPath string

	// The name of the gpiochip in /dev and sysfs.
	chipName string

	// The path to the chip in /sys/devices/platform.
	sysfsPath string

	cfg Bank
}

// ChipName returns the name of the gpiochip, e.g. "gpiochip0".
func (c *Chip) ChipName() string {
	return c.chipName
}

// Config returns the configuration used for the Chip.
func (c *Chip) Config() Bank {
	return c.cfg
}

// DevPath returns the path to the gpiochip device, e.g. "/dev/gpiochip0".
func (c *Chip) DevPath() string {
	return c.devPath
}

// Level returns the level the line is being driven to by userspace.
//
// For lines not requested as outputs this is the level of the pull.
func (c *Chip) Level(offset int) (gpiocontrol.Level, error) {
	v, err := c.attr(offset, "value")
	if err != nil {
		return gpiocontrol.Low, err
	}
	switch v {
	case "0":
		return gpiocontrol.Low, nil
	case "1":
		return gpiocontrol.High, nil
	}
	return gpiocontrol.Low, errors.Errorf("unexpected level value: %s", v)
}

// Pull returns the pull applied to the line.
func (c *Chip) Pull(offset int) (gpiocontrol.Level, error) {
	v, err := c.attr(offset, "pull")
	if err != nil {
		return gpiocontrol.Low, err
	}
	switch v {
	case "pull-down":
		return gpiocontrol.Low, nil
	case "pull-up":
		return gpiocontrol.High, nil
	}
	return gpiocontrol.Low, errors.Errorf("unexpected pull value: %s", v)
}

// SetPull sets the pull of the line.
func (c *Chip) SetPull(offset int, l gpiocontrol.Level) error {
	p := "pull-down"
	if l == gpiocontrol.High {
		p = "pull-up"
	}
	return c.setAttr(offset, "pull", p)
}

func (c *Chip) attr(offset int, name string) (string, error) {
	return readAttr(path.Join(c.sysfsPath, fmt.Sprintf("sim_gpio%d", offset)), name)
}

func (c *Chip) setAttr(offset int, name, value string) error {
	return writeAttr(path.Join(c.sysfsPath, fmt.Sprintf("sim_gpio%d", offset)), name, value)
}
