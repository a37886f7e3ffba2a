// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package fake provides an in-memory gpiocontrol.LineDriver.
//
// The driver is used when no hardware is available, and by tests, which can
// inspect the driven levels, alter them behind the back of the controller,
// and inject faults.
package fake

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocontrol"
)

// ErrNotRequested indicates an operation on a line that has not been set up.
var ErrNotRequested = errors.New("line not requested")

// Op identifies a driver operation for fault injection.
type Op int

const (
	OpSetMode Op = iota
	OpSetup
	OpCleanup
	OpWrite
	OpRead
)

type fault struct {
	op   Op
	line int
}

// Driver is an in-memory LineDriver.
type Driver struct {
	mu     sync.Mutex
	mode *gpiocontrol.Mode

	// lines held as outputs
	held map[int]struct{}

	// the level of every line ever set up, retained after cleanup
	levels map[int]gpiocontrol.Level

	setups map[int]int
	faults map[fault]error
}

// Option defines the interface required to provide an option to New.
type Option interface {
	applyOption(*Driver)
}

// ModeOption is an option that preselects the addressing mode.
type ModeOption gpiocontrol.Mode

// WithMode returns an option that preselects the addressing mode, as if some
// other user of the hardware had already selected it.
func WithMode(m gpiocontrol.Mode) ModeOption {
	return ModeOption(m)
}

func (o ModeOption) applyOption(d *Driver) {
	m := gpiocontrol.Mode(o)
	d.mode = &m
}

// New constructs a Driver with no lines held.
func New(options ...Option) *Driver {
	d := &Driver{
		held:   make(map[int]struct{}),
		levels: make(map[int]gpiocontrol.Level),
		setups: make(map[int]int),
		faults: make(map[fault]error),
	}
	for _, o := range options {
		o.applyOption(d)
	}
	return d
}

// Mode returns the selected addressing mode.
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
	if err := d.fault(OpSetMode, 0); err != nil {
		return err
	}
	d.mode = &m
	return nil
}

// SetupOutput holds the line as an output at its previous level.
//
// A line that is already held is reconfigured in place.  A line never set up
// before starts low.
func (d *Driver) SetupOutput(line int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fault(OpSetup, line); err != nil {
		return err
	}
	d.held[line] = struct{}{}
	d.setups[line]++
	return nil
}

// Cleanup releases the line.
func (d *Driver) Cleanup(line int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fault(OpCleanup, line); err != nil {
		return err
	}
	if _, ok := d.held[line]; !ok {
		return errors.Wrapf(ErrNotRequested, "line %d", line)
	}
	delete(d.held, line)
	return nil
}

// Write sets the level of the line.
func (d *Driver) Write(line int, l gpiocontrol.Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fault(OpWrite, line); err != nil {
		return err
	}
	if _, ok := d.held[line]; !ok {
		return errors.Wrapf(ErrNotRequested, "line %d", line)
	}
	d.levels[line] = l
	return nil
}

// Read returns the level of the line.
func (d *Driver) Read(line int) (gpiocontrol.Level, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fault(OpRead, line); err != nil {
		return gpiocontrol.Low, err
	}
	if _, ok := d.held[line]; !ok {
		return gpiocontrol.Low, errors.Wrapf(ErrNotRequested, "line %d", line)
	}
	return d.levels[line], nil
}

// Close releases all lines.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.held = make(map[int]struct{})
	return nil
}

// Level returns the level of a held line, and false if the line is not held.
func (d *Driver) Level(line int) (gpiocontrol.Level, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.held[line]; !ok {
		return gpiocontrol.Low, false
	}
	return d.levels[line], true
}

// Force changes the level of a held line without going through the
// controller, e.g. to simulate an external reset.
func (d *Driver) Force(line int, l gpiocontrol.Level) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.held[line]; ok {
		d.levels[line] = l
	}
}

// Lines returns the held lines in ascending order.
func (d *Driver) Lines() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Sorted(maps.Keys(d.held))
}

// Setups returns the number of times the line has been set up.
func (d *Driver) Setups(line int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setups[line]
}

// Fail causes subsequent op calls on the line to return err.
//
// The line is ignored for OpSetMode.  A nil err clears the fault.
func (d *Driver) Fail(op Op, line int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := fault{op, line}
	if op == OpSetMode {
		k.line = 0
	}
	if err == nil {
		delete(d.faults, k)
		return
	}
	d.faults[k] = err
}

func (d *Driver) fault(op Op, line int) error {
	return d.faults[fault{op, line}]
}
