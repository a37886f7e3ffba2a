// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

/*
Package gpiocontrol manages a set of GPIO output lines as named, polarity aware
switches.

Each switch is described by a [Configuration] containing the pin identifier,
the [Polarity] of the attached load, and an optional default state to drive
when the configuration is applied.

Pin identifiers are resolved to hardware lines using [Resolve], according to the
addressing [Mode] in effect.  In [Logical] mode the identifier is the chip line
number.  In [Physical] mode it is mapped to the pin on the 40 pin header.
Identifiers outside the range 2..27 never resolve.

The [Controller] applies a list of configurations to a [LineDriver], executes
on/off/query commands against entries in that list, and tracks the logical
state of each line independently of the hardware.  Queries compare the tracked
state with the level read back from the hardware and log any drift.

# Example Usage

	d := fake.New()
	c := gpiocontrol.New(d, gpiocontrol.WithLogger(log))
	err := c.Startup()
	err = c.ApplyAll([]gpiocontrol.Configuration{
		{Pin: 17, Polarity: gpiocontrol.ActiveHigh, Default: gpiocontrol.DefaultOn, Name: "fan"},
	})
	_, err = c.Handle(gpiocontrol.TurnOff, 0)
	state, err := c.Handle(gpiocontrol.GetState, 0) // "off"

The drivers in the driver subdirectories provide LineDriver implementations
for the Linux GPIO character device, periph.io, and direct register access on
the Raspberry Pi.
*/
package gpiocontrol
