// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiosim

import "fmt"

// HeaderLines is the number of lines on the simulated header chip.
const HeaderLines = 28

// Header is a single chip simulating the GPIO lines broken out to a Raspberry
// Pi style 40 pin header.
//
// Line n is named "GPIOn", matching the names the Pi kernel gives the lines.
type Header struct {
	*Sim
	*Chip
}

// NewHeader constructs and takes live a Header.
//
// The options are applied after the line names, so may be used to hog lines.
func NewHeader(options ...BankOption) (*Header, error) {
	opts := make([]BankOption, 0, HeaderLines+len(options))
	for o := 0; o < HeaderLines; o++ {
		opts = append(opts, WithNamedLine(o, fmt.Sprintf("GPIO%d", o)))
	}
	opts = append(opts, options...)
	s, err := NewSim(NewBank("gpiocontrol-header", HeaderLines, opts...))
	if err != nil {
		return nil, err
	}
	return &Header{Sim: s, Chip: &s.Chips[0]}, nil
}
