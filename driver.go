// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiocontrol

// LineDriver provides access to the hardware lines.
//
// Lines are those returned by Resolve, so a driver in Physical mode is passed
// header pin numbers.
type LineDriver interface {
	// Mode returns the addressing mode the driver is using, and false if no
	// mode has been selected.
	Mode() (Mode, bool)

	// SetMode selects the addressing mode.
	SetMode(Mode) error

	// SetupOutput configures the line as an output.
	SetupOutput(line int) error

	// Cleanup releases the line, returning it to an input.
	Cleanup(line int) error

	// Write drives the line to the level.
	Write(line int, l Level) error

	// Read returns the current level of the line.
	Read(line int) (Level, error)

	// Close releases all lines held by the driver.
	Close() error
}
