// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiocontrol

import (
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/pkg/errors"
)

// Controller applies configurations to a LineDriver and executes commands
// against them.
//
// The Controller is the only user of its driver.  All methods are safe for
// concurrent use, and are serialised by a single lock.
type Controller struct {
	mu sync.Mutex

	driver LineDriver
	log    *slog.Logger

	// The addressing mode detected by Startup.
	mode Mode

	// The configuration list most recently applied.
	cfgs []Configuration

	// The logical state of each line.
	states *StateStore

	// The lines currently set up as outputs.
	lines map[int]struct{}
}

// New constructs a Controller using the driver.
//
// The available options are [WithLogger].
func New(d LineDriver, options ...Option) *Controller {
	c := &Controller{
		driver: d,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		states: NewStateStore(),
		lines:  make(map[int]struct{}),
	}
	for _, o := range options {
		o.applyOption(c)
	}
	return c
}

// Startup determines the addressing mode from the driver.
//
// If the driver has no mode selected then Logical is selected.
func (c *Controller) Startup() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.driver.Mode()
	if !ok {
		m = Logical
		if err := c.driver.SetMode(m); err != nil {
			return errors.Wrap(err, "select addressing mode")
		}
	}
	c.mode = m
	c.log.Info("detected addressing mode", "mode", m)
	return nil
}

// Mode returns the addressing mode in use.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Configurations returns a copy of the current configuration list.
func (c *Controller) Configurations() []Configuration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.cfgs)
}

// ApplyAll sets up the lines described by cfgs, in order, and drives their
// default states.
//
// Entries with pins that do not resolve are skipped.  A driver fault on one
// entry does not prevent the remaining entries being applied; all faults are
// returned in an *ApplyError once the batch is complete.
//
// The cfgs become the list referenced by Handle.
func (c *Controller) ApplyAll(cfgs []Configuration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ae := &ApplyError{}
	c.applyAll(cfgs, ae)
	return ae.errOrNil()
}

// Reload releases all lines set up by the current list, forgets their states,
// then applies cfgs.
//
// Applying the same list repeatedly leaves the same states recorded.
func (c *Controller) Reload(cfgs []Configuration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ae := &ApplyError{}
	c.releaseAll(ae)
	c.log.Info("reloading configurations", "count", len(cfgs))
	c.applyAll(cfgs, ae)
	return ae.errOrNil()
}

// Close releases all lines set up by the Controller.
//
// The driver itself is not closed.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ae := &ApplyError{}
	c.releaseAll(ae)
	c.cfgs = nil
	return ae.errOrNil()
}

// Handle executes the command on the configuration at index id.
//
// TurnOn and TurnOff return the new state, and GetState the recorded state,
// as "on" or "off".  Commands on entries whose pins do not resolve do nothing
// and return an empty string.  GetState returns StateUnknown if no state has
// been recorded for the line.
//
// An id outside the configuration list returns an error wrapping
// ErrUnknownIndex.  Driver faults are returned as errors.
func (c *Controller) Handle(cmd Command, id int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle(cmd, id)
}

// States returns the result of GetState for each entry of the configuration
// list, in order.
func (c *Controller) States() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	states := make([]string, len(c.cfgs))
	for i := range c.cfgs {
		s, err := c.handle(GetState, i)
		if err != nil {
			return nil, err
		}
		states[i] = s
	}
	return states, nil
}

func (c *Controller) applyAll(cfgs []Configuration, ae *ApplyError) {
	c.cfgs = slices.Clone(cfgs)
	for i, cfg := range c.cfgs {
		if err := c.apply(cfg); err != nil {
			ae.add(errors.Wrapf(err, "configuration %d (%s)", i, cfg.Name))
		}
	}
}

func (c *Controller) apply(cfg Configuration) error {
	line := Resolve(c.mode, cfg.Pin)
	if line == Unresolved {
		c.log.Warn("skipped unresolvable pin", "pin", cfg.Pin, "mode", c.mode, "name", cfg.Name)
		return nil
	}
	if _, ok := c.lines[line]; ok {
		if err := c.release(line); err != nil {
			return err
		}
	}
	if err := c.driver.SetupOutput(line); err != nil {
		return errors.Wrapf(err, "setup line %d", line)
	}
	c.lines[line] = struct{}{}
	st, ok := cfg.Default.State()
	if !ok {
		c.log.Info("configured line", "pin", cfg.Pin, "line", line, "polarity", cfg.Polarity, "name", cfg.Name)
		return nil
	}
	if err := c.driver.Write(line, CommandLevel(cfg.Polarity, st)); err != nil {
		return errors.Wrapf(err, "write line %d", line)
	}
	c.states.Set(line, st)
	c.log.Info("configured line",
		"pin", cfg.Pin,
		"line", line,
		"polarity", cfg.Polarity,
		"default", cfg.Default,
		"name", cfg.Name)
	return nil
}

// releaseAll cleans up every line.  Lines that fail to clean up remain held,
// so a later release retries them.
func (c *Controller) releaseAll(ae *ApplyError) {
	for _, line := range slices.Sorted(maps.Keys(c.lines)) {
		if err := c.release(line); err != nil {
			ae.add(err)
		}
	}
	c.states.Reset()
}

// release forgets the state of the line and cleans it up.
func (c *Controller) release(line int) error {
	c.states.Delete(line)
	if err := c.driver.Cleanup(line); err != nil {
		return errors.Wrapf(err, "cleanup line %d", line)
	}
	delete(c.lines, line)
	c.log.Debug("cleaned up line", "line", line)
	return nil
}

func (c *Controller) handle(cmd Command, id int) (string, error) {
	if id < 0 || id >= len(c.cfgs) {
		return "", errors.Wrapf(ErrUnknownIndex, "id %d of %d", id, len(c.cfgs))
	}
	cfg := c.cfgs[id]
	line := Resolve(c.mode, cfg.Pin)
	switch cmd {
	case TurnOn:
		return c.turn(cfg, line, On)
	case TurnOff:
		return c.turn(cfg, line, Off)
	case GetState:
		return c.state(cfg, line)
	}
	return "", errors.Wrapf(ErrUnknownCommand, "%d", int(cmd))
}

func (c *Controller) turn(cfg Configuration, line int, st State) (string, error) {
	if line == Unresolved {
		return "", nil
	}
	if err := c.driver.Write(line, CommandLevel(cfg.Polarity, st)); err != nil {
		return "", errors.Wrapf(err, "write line %d", line)
	}
	c.states.Set(line, st)
	c.log.Info("turned "+st.String(), "pin", cfg.Pin, "line", line, "name", cfg.Name)
	return st.String(), nil
}

// state returns the recorded state of the line, logging any disagreement with
// the level read from the hardware.
func (c *Controller) state(cfg Configuration, line int) (string, error) {
	if line == Unresolved {
		return "", nil
	}
	st, ok := c.states.Get(line)
	if !ok {
		c.log.Warn("no state recorded for line", "pin", cfg.Pin, "line", line, "name", cfg.Name)
		return StateUnknown, nil
	}
	l, err := c.driver.Read(line)
	if err != nil {
		return "", errors.Wrapf(err, "read line %d", line)
	}
	if obs := ObservedState(cfg.Polarity, l); obs != st {
		// drift is reported, not corrected
		c.log.Warn("state drift",
			"pin", cfg.Pin,
			"line", line,
			"name", cfg.Name,
			"state", st,
			"observed", obs,
			"level", l)
	}
	return st.String(), nil
}
