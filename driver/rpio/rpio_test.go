// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package rpio

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiocontrol"
)

type testPin struct {
	output bool
	state  rpio.State
}

func (p *testPin) Input()             { p.output = false }
func (p *testPin) Output()            { p.output = true }
func (p *testPin) Read() rpio.State   { return p.state }
func (p *testPin) Write(s rpio.State) { p.state = s }

func newTestDriver(options ...Option) (*Driver, map[int]*testPin) {
	pins := make(map[int]*testPin)
	pf := func(offset int) pin {
		p, ok := pins[offset]
		if !ok {
			p = &testPin{}
			pins[offset] = p
		}
		return p
	}
	return newDriver(pf, options...), pins
}

func TestSetupWriteRead(t *testing.T) {
	d, pins := newTestDriver()

	require.Nil(t, d.SetupOutput(17))
	assert.True(t, pins[17].output)
	assert.Equal(t, rpio.Low, pins[17].state)

	require.Nil(t, d.Write(17, gpiocontrol.High))
	assert.Equal(t, rpio.High, pins[17].state)
	l, err := d.Read(17)
	assert.Nil(t, err)
	assert.Equal(t, gpiocontrol.High, l)

	require.Nil(t, d.Cleanup(17))
	assert.False(t, pins[17].output)
	_, err = d.Read(17)
	assert.True(t, errors.Is(err, ErrNotRequested))
}

func TestSetupHoldsLevel(t *testing.T) {
	d, pins := newTestDriver()
	pins[22] = &testPin{state: rpio.High}
	require.Nil(t, d.SetupOutput(22))
	assert.Equal(t, rpio.High, pins[22].state)
}

func TestPhysicalMode(t *testing.T) {
	d, pins := newTestDriver(WithMode(gpiocontrol.Physical))

	require.Nil(t, d.SetupOutput(11))
	require.Nil(t, d.Write(11, gpiocontrol.High))
	assert.Equal(t, rpio.High, pins[17].state)

	assert.True(t, errors.Is(d.SetupOutput(2), ErrNoPin))
}

func TestLineRange(t *testing.T) {
	d, _ := newTestDriver()
	assert.True(t, errors.Is(d.SetupOutput(28), ErrNoPin))
	assert.True(t, errors.Is(d.SetupOutput(-1), ErrNoPin))
}

func TestNotRequested(t *testing.T) {
	d, _ := newTestDriver()
	assert.True(t, errors.Is(d.Write(5, gpiocontrol.Low), ErrNotRequested))
	assert.True(t, errors.Is(d.Cleanup(5), ErrNotRequested))
}

func TestClose(t *testing.T) {
	d, pins := newTestDriver()
	require.Nil(t, d.SetupOutput(4))
	require.Nil(t, d.SetupOutput(5))
	require.Nil(t, d.Close())
	assert.False(t, pins[4].output)
	assert.False(t, pins[5].output)
}
