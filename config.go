// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiocontrol

import (
	"strings"

	"github.com/pkg/errors"
)

// Configuration describes one switch.
type Configuration struct {
	// The user facing pin identifier, interpreted according to the Mode.
	Pin int

	// The polarity of the load attached to the line.
	Polarity Polarity

	// The state to drive when the configuration is applied.
	Default Default

	// A display label.  Only used for logging.
	Name string
}

// Default is the state driven when a configuration is applied.
type Default int

const (
	// DefaultUnset leaves the line undriven.
	DefaultUnset Default = iota

	// DefaultOn drives the load on.
	DefaultOn

	// DefaultOff drives the load off.
	DefaultOff
)

// State returns the State corresponding to the default, and false if the
// default is unset.
func (d Default) State() (State, bool) {
	switch d {
	case DefaultOn:
		return On, true
	case DefaultOff:
		return Off, true
	}
	return Off, false
}

func (d Default) String() string {
	switch d {
	case DefaultOn:
		return "default_on"
	case DefaultOff:
		return "default_off"
	}
	return ""
}

// ParseDefault converts the persisted form of a Default.
//
// An empty string is DefaultUnset.
func ParseDefault(s string) (Default, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultUnset, nil
	case "default_on":
		return DefaultOn, nil
	case "default_off":
		return DefaultOff, nil
	}
	return DefaultUnset, errors.Errorf("unknown default state: '%s'", s)
}

// ParseConfiguration builds a Configuration from its persisted fields.
//
// The pin is not checked here.  Unresolvable pins are skipped when the
// configuration is applied.
func ParseConfiguration(pin int, activeMode, defaultState, name string) (Configuration, error) {
	p, err := ParsePolarity(activeMode)
	if err != nil {
		return Configuration{}, err
	}
	d, err := ParseDefault(defaultState)
	if err != nil {
		return Configuration{}, err
	}
	return Configuration{Pin: pin, Polarity: p, Default: d, Name: name}, nil
}
