// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiocontrol

import "github.com/pkg/errors"

// Command is a runtime operation on a configured switch.
type Command int

const (
	// TurnOn drives the switch on.
	TurnOn Command = iota

	// TurnOff drives the switch off.
	TurnOff

	// GetState queries the logical state of the switch.
	GetState
)

// StateUnknown is returned by GetState for a line with no recorded state.
const StateUnknown = "unknown"

var commandNames = map[Command]string{
	TurnOn:   "turnGpioOn",
	TurnOff:  "turnGpioOff",
	GetState: "getGpioState",
}

func (c Command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return "unknown"
}

// ParseCommand converts a command name, as used by the API, to a Command.
func ParseCommand(name string) (Command, error) {
	for c, n := range commandNames {
		if n == name {
			return c, nil
		}
	}
	return GetState, errors.Wrapf(ErrUnknownCommand, "'%s'", name)
}
