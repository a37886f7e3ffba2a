// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux

// Package cdev provides a gpiocontrol.LineDriver using the Linux GPIO
// character device.
//
// Lines are requested from a single gpiochip.  In Logical mode the line is the
// offset on that chip.  In Physical mode the line is a header pin, and is
// mapped to the offset of the GPIO wired to it.
package cdev

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"
	"github.com/warthog618/go-gpiocontrol"
)

var (
	// ErrNotRequested indicates an operation on a line that has not been set up.
	ErrNotRequested = errors.New("line not requested")

	// ErrNoOffset indicates a header pin that has no GPIO wired to it.
	ErrNoOffset = errors.New("no gpio on header pin")
)

// Driver requests lines from a gpiochip.
type Driver struct {
	mu       sync.Mutex
	chip     string
	consumer string
	mode     *gpiocontrol.Mode

	// requested lines, keyed by chip offset
	lines map[int]*gpiocdev.Line
}

// New constructs a Driver for the named chip, e.g. "gpiochip0".
//
// No lines are requested until SetupOutput.
func New(chip string, options ...Option) *Driver {
	d := &Driver{
		chip:     chip,
		consumer: "gpiocontrol",
		lines:    make(map[int]*gpiocdev.Line),
	}
	for _, o := range options {
		o.applyOption(d)
	}
	return d
}

// Probe checks the chip can be opened, returning its label.
func Probe(chip string) (string, error) {
	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return "", errors.Wrapf(err, "open %s", chip)
	}
	defer c.Close()
	return c.Label, nil
}

// Mode returns the addressing mode, if one has been selected.
func (d *Driver) Mode() (gpiocontrol.Mode, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode == nil {
		return gpiocontrol.Logical, false
	}
	return *d.mode, true
}

// SetMode selects the addressing mode.
func (d *Driver) SetMode(m gpiocontrol.Mode) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mode = &m
	return nil
}

// SetupOutput requests the line as an output, preserving its current level.
//
// A line that is already requested is reconfigured as an output.
func (d *Driver) SetupOutput(line int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	offset, err := d.offset(line)
	if err != nil {
		return err
	}
	l, ok := d.lines[offset]
	if !ok {
		l, err = gpiocdev.RequestLine(d.chip, offset, gpiocdev.AsInput, gpiocdev.WithConsumer(d.consumer))
		if err != nil {
			return errors.Wrapf(err, "request %s:%d", d.chip, offset)
		}
		d.lines[offset] = l
	}
	v, err := l.Value()
	if err != nil {
		return errors.Wrapf(err, "read %s:%d", d.chip, offset)
	}
	return l.Reconfigure(gpiocdev.AsOutput(v))
}

// Cleanup returns the line to an input and releases it.
func (d *Driver) Cleanup(line int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	offset, l, err := d.requested(line)
	if err != nil {
		return err
	}
	delete(d.lines, offset)
	return release(l)
}

// Write drives the line to the level.
func (d *Driver) Write(line int, level gpiocontrol.Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, l, err := d.requested(line)
	if err != nil {
		return err
	}
	return l.SetValue(int(level))
}

// Read returns the level of the line.
//
// For an output this is the level the line is being driven to.
func (d *Driver) Read(line int) (gpiocontrol.Level, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, l, err := d.requested(line)
	if err != nil {
		return gpiocontrol.Low, err
	}
	v, err := l.Value()
	if err != nil {
		return gpiocontrol.Low, err
	}
	if v != 0 {
		return gpiocontrol.High, nil
	}
	return gpiocontrol.Low, nil
}

// Close releases all requested lines.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var errs []error
	for offset, l := range d.lines {
		if err := release(l); err != nil {
			errs = append(errs, errors.Wrapf(err, "release %s:%d", d.chip, offset))
		}
	}
	d.lines = make(map[int]*gpiocdev.Line)
	if len(errs) > 0 {
		return &gpiocontrol.ReleaseError{Errors: errs}
	}
	return nil
}

// offset maps the line to the chip offset for the selected mode.
func (d *Driver) offset(line int) (int, error) {
	if d.mode == nil || *d.mode == gpiocontrol.Logical {
		return line, nil
	}
	offset, ok := gpiocontrol.HeaderPin(line)
	if !ok {
		return 0, errors.Wrapf(ErrNoOffset, "pin %d", line)
	}
	return offset, nil
}

func (d *Driver) requested(line int) (int, *gpiocdev.Line, error) {
	offset, err := d.offset(line)
	if err != nil {
		return 0, nil, err
	}
	l, ok := d.lines[offset]
	if !ok {
		return 0, nil, errors.Wrapf(ErrNotRequested, "%s:%d", d.chip, offset)
	}
	return offset, l, nil
}

// release reverts the line to an input before closing it, so the line is not
// left driven once released.
func release(l *gpiocdev.Line) error {
	rerr := l.Reconfigure(gpiocdev.AsInput)
	if err := l.Close(); err != nil {
		return err
	}
	return rerr
}
