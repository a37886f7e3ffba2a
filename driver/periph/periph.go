// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package periph provides a gpiocontrol.LineDriver using the periph.io host
// drivers.
//
// Pins are looked up in the periph gpio registry by their "GPIOn" name.
package periph

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocontrol"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

var (
	// ErrNotRequested indicates an operation on a line that has not been set up.
	ErrNotRequested = errors.New("line not requested")

	// ErrNoPin indicates the line has no corresponding pin in the registry.
	ErrNoPin = errors.New("pin not found")
)

// Driver drives pins from the periph gpio registry.
type Driver struct {
	mu   sync.Mutex
	mode *gpiocontrol.Mode

	byName func(string) gpio.PinIO

	// pins set up as outputs, keyed by line
	pins map[int]gpio.PinIO
}

// New initialises the periph host drivers and returns a Driver using the
// gpio registry they populate.
func New(options ...Option) (*Driver, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}
	return newDriver(gpioreg.ByName, options...), nil
}

func newDriver(byName func(string) gpio.PinIO, options ...Option) *Driver {
	d := &Driver{
		byName: byName,
		pins:   make(map[int]gpio.PinIO),
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
		var err error
		if p, err = d.lookup(line); err != nil {
			return err
		}
	}
	if err := p.Out(p.Read()); err != nil {
		return errors.Wrapf(err, "set %s to output", p.Name())
	}
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
	return p.In(gpio.PullNoChange, gpio.NoEdge)
}

// Write drives the pin to the level.
func (d *Driver) Write(line int, l gpiocontrol.Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.requested(line)
	if err != nil {
		return err
	}
	return p.Out(toLevel(l))
}

// Read returns the level of the pin.
func (d *Driver) Read(line int) (gpiocontrol.Level, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.requested(line)
	if err != nil {
		return gpiocontrol.Low, err
	}
	if p.Read() == gpio.High {
		return gpiocontrol.High, nil
	}
	return gpiocontrol.Low, nil
}

// Close returns all pins set up as outputs to inputs.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var errs []error
	for _, p := range d.pins {
		if err := p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			errs = append(errs, errors.Wrap(err, p.Name()))
		}
	}
	d.pins = make(map[int]gpio.PinIO)
	if len(errs) > 0 {
		return &gpiocontrol.ReleaseError{Errors: errs}
	}
	return nil
}

// lookup finds the registry pin for the line.
func (d *Driver) lookup(line int) (gpio.PinIO, error) {
	n := line
	if d.mode != nil && *d.mode == gpiocontrol.Physical {
		var ok bool
		if n, ok = gpiocontrol.HeaderPin(line); !ok {
			return nil, errors.Wrapf(ErrNoPin, "header pin %d", line)
		}
	}
	name := fmt.Sprintf("GPIO%d", n)
	p := d.byName(name)
	if p == nil {
		return nil, errors.Wrap(ErrNoPin, name)
	}
	return p, nil
}

func (d *Driver) requested(line int) (gpio.PinIO, error) {
	p, ok := d.pins[line]
	if !ok {
		return nil, errors.Wrapf(ErrNotRequested, "line %d", line)
	}
	return p, nil
}

func toLevel(l gpiocontrol.Level) gpio.Level {
	if l == gpiocontrol.High {
		return gpio.High
	}
	return gpio.Low
}
