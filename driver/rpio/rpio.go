// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package rpio provides a gpiocontrol.LineDriver that accesses the Raspberry
// Pi GPIO registers directly through /dev/gpiomem.
package rpio

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"
	"github.com/warthog618/go-gpiocontrol"
)

var (
	// ErrNotRequested indicates an operation on a line that has not been set up.
	ErrNotRequested = errors.New("line not requested")

	// ErrNoPin indicates a line with no corresponding GPIO.
	ErrNoPin = errors.New("no gpio for line")
)

// maxOffset is the highest GPIO broken out to the header.
const maxOffset = 27

// pin is the subset of rpio.Pin used by the driver.
type pin interface {
	Input()
	Output()
	Read() rpio.State
	Write(rpio.State)
}

// Driver drives the Pi GPIO registers.
type Driver struct {
	mu   sync.Mutex
	mode *gpiocontrol.Mode

	pin   func(offset int) pin
	close func() error

	// pins set up as outputs, keyed by line
	pins map[int]pin
}

// New maps the GPIO registers and returns a Driver using them.
//
// The registers are unmapped by Close.
func New(options ...Option) (*Driver, error) {
	if err := rpio.Open(); err != nil {
		return nil, errors.Wrap(err, "open gpio memory")
	}
	d := newDriver(func(offset int) pin { return rpio.Pin(offset) }, options...)
	d.close = rpio.Close
	return d, nil
}

func newDriver(pf func(int) pin, options ...Option) *Driver {
	d := &Driver{
		pin:   pf,
		close: func() error { return nil },
		pins:  make(map[int]pin),
	}
	for _, o := range options {
		o.applyOption(d)
	}
	return d
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

// SetupOutput switches the pin to an output, holding its current level.
func (d *Driver) SetupOutput(line int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pins[line]
	if !ok {
		offset, err := d.offset(line)
		if err != nil {
			return err
		}
		p = d.pin(offset)
	}
	v := p.Read()
	p.Output()
	p.Write(v)
	d.pins[line] = p
	return nil
}

// Cleanup returns the pin to an input.
func (d *Driver) Cleanup(line int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.requested(line)
	if err != nil {
		return err
	}
	delete(d.pins, line)
	p.Input()
	return nil
}

// Write drives the pin to the level.
func (d *Driver) Write(line int, l gpiocontrol.Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.requested(line)
	if err != nil {
		return err
	}
	if l == gpiocontrol.High {
		p.Write(rpio.High)
	} else {
		p.Write(rpio.Low)
	}
	return nil
}

// Read returns the level of the pin.
func (d *Driver) Read(line int) (gpiocontrol.Level, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.requested(line)
	if err != nil {
		return gpiocontrol.Low, err
	}
	if p.Read() == rpio.High {
		return gpiocontrol.High, nil
	}
	return gpiocontrol.Low, nil
}

// Close returns all pins set up as outputs to inputs and unmaps the
// registers.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.pins {
		p.Input()
	}
	d.pins = make(map[int]pin)
	return d.close()
}

func (d *Driver) offset(line int) (int, error) {
	offset := line
	if d.mode != nil && *d.mode == gpiocontrol.Physical {
		var ok bool
		if offset, ok = gpiocontrol.HeaderPin(line); !ok {
			return 0, errors.Wrapf(ErrNoPin, "header pin %d", line)
		}
	}
	if offset < 0 || offset > maxOffset {
		return 0, errors.Wrapf(ErrNoPin, "line %d", line)
	}
	return offset, nil
}

func (d *Driver) requested(line int) (pin, error) {
	p, ok := d.pins[line]
	if !ok {
		return nil, errors.Wrapf(ErrNotRequested, "line %d", line)
	}
	return p, nil
}
