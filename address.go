// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiocontrol

import (
	"strings"

	"github.com/pkg/errors"
)

// Mode is the scheme used to interpret pin identifiers.
type Mode int

const (
	// Logical identifiers are the line numbers of the GPIO chip, e.g. BCM numbering.
	Logical Mode = iota

	// Physical identifiers are translated to the pin number on the 40 pin header.
	Physical
)

func (m Mode) String() string {
	if m == Physical {
		return "physical"
	}
	return "logical"
}

// ParseMode converts the textual form of a Mode.
//
// Accepts "logical" or "bcm", and "physical" or "board", in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "logical", "bcm":
		return Logical, nil
	case "physical", "board":
		return Physical, nil
	}
	return Logical, errors.Errorf("unknown addressing mode: '%s'", s)
}

// Unresolved is the line returned for identifiers that do not map to hardware.
const Unresolved = -1

const (
	minPin = 2
	maxPin = 27
)

// boardPins maps the logical line number to the corresponding header pin.
var boardPins = [28]int{
	-1, -1, 3, 5, 7, 29, 31, 26, 24, 21, 19, 23, 32, 33,
	8, 10, 36, 11, 12, 35, 38, 40, 15, 16, 18, 22, 37, 13,
}

// Resolve returns the hardware line corresponding to the pin identifier in the
// given mode, or Unresolved.
//
// Only identifiers in the range 2..27 are accepted, whatever the mode.
func Resolve(mode Mode, pin int) int {
	if pin < minPin || pin > maxPin {
		return Unresolved
	}
	if mode == Logical {
		return pin
	}
	return boardPins[pin]
}

// HeaderPin returns the logical line number wired to the given header pin.
//
// This is the inverse of Resolve in Physical mode, and is used by drivers that
// address lines by chip offset.
func HeaderPin(header int) (int, bool) {
	if header <= 0 {
		return Unresolved, false
	}
	for line, h := range boardPins {
		if h == header {
			return line, true
		}
	}
	return Unresolved, false
}
