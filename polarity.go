// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiocontrol

import (
	"strings"

	"github.com/pkg/errors"
)

// Level is the electrical level of a line.
type Level int

const (
	// Low is the inactive, or 0, level.
	Low Level = iota

	// High is the active, or 1, level.
	High
)

func (l Level) String() string {
	if l == High {
		return "high"
	}
	return "low"
}

// State is the logical state of a switch.
type State int

const (
	// Off is the de-energised state of the load.
	Off State = iota

	// On is the energised state of the load.
	On
)

func (s State) String() string {
	if s == On {
		return "on"
	}
	return "off"
}

// Polarity describes which level turns the load on.
type Polarity int

const (
	// ActiveLow loads are on when the line is driven low.
	ActiveLow Polarity = iota

	// ActiveHigh loads are on when the line is driven high.
	ActiveHigh
)

func (p Polarity) String() string {
	if p == ActiveHigh {
		return "active_high"
	}
	return "active_low"
}

// ParsePolarity converts the persisted form of a Polarity.
func ParsePolarity(s string) (Polarity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active_low":
		return ActiveLow, nil
	case "active_high":
		return ActiveHigh, nil
	}
	return ActiveLow, errors.Errorf("unknown active mode: '%s'", s)
}

// CommandLevel returns the level to drive to place a load of the given
// polarity into the requested state.
func CommandLevel(p Polarity, s State) Level {
	if (p == ActiveHigh) == (s == On) {
		return High
	}
	return Low
}

// ObservedState returns the state of a load of the given polarity when its
// line is at the given level.
//
// It is the inverse of CommandLevel.
func ObservedState(p Polarity, l Level) State {
	if (p == ActiveHigh) == (l == High) {
		return On
	}
	return Off
}
