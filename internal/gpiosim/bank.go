// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiosim

// Bank contains the information required to configure a chip in a gpio-sim.
type Bank struct {
	// The number of lines simulated by this bank/chip.
	NumLines int

	// The label of the chip.
	Label string

	// Lines assigned an identifying name.
	Names map[int]string

	// Lines that appear to be already in use by some other consumer.
	Hogs map[int]string
}

// BankOption defines the interface required to provide an option to NewBank.
type BankOption interface {
	applyBankOption(*Bank)
}

// NewBank constructs a Bank with the label, numLines and options provided.
//
// The available options are [WithNamedLine] and [WithHoggedLine].
func NewBank(label string, numLines int, options ...BankOption) *Bank {
	b := &Bank{Label: label, NumLines: numLines}
	for _, o := range options {
		o.applyBankOption(b)
	}
	return b
}

// NamedLine is an option that names a line.
type NamedLine struct {
	Offset int
	Name   string
}

// WithNamedLine returns an option that defines the name of a simulated line.
func WithNamedLine(offset int, name string) NamedLine {
	return NamedLine{offset, name}
}

func (o NamedLine) applyBankOption(b *Bank) {
	if b.Names == nil {
		b.Names = make(map[int]string)
	}
	b.Names[o.Offset] = o.Name
}

// HoggedLine is an option that hogs a line as an input.
type HoggedLine struct {
	Offset   int
	Consumer string
}

// WithHoggedLine returns an option that makes a line appear in use by the
// consumer, so any request for the line fails as busy.
func WithHoggedLine(offset int, consumer string) HoggedLine {
	return HoggedLine{offset, consumer}
}

func (o HoggedLine) applyBankOption(b *Bank) {
	if b.Hogs == nil {
		b.Hogs = make(map[int]string)
	}
	b.Hogs[o.Offset] = o.Consumer
}
