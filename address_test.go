// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiocontrol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiocontrol"
)

var headerPins = []int{
	-1, -1, 3, 5, 7, 29, 31, 26, 24, 21, 19, 23, 32, 33,
	8, 10, 36, 11, 12, 35, 38, 40, 15, 16, 18, 22, 37, 13,
}

func TestResolveOutOfRange(t *testing.T) {
	for _, m := range []gpiocontrol.Mode{gpiocontrol.Logical, gpiocontrol.Physical} {
		for _, pin := range []int{-40, -2, -1, 0, 1, 28, 29, 40, 41, 1000} {
			assert.Equal(t, gpiocontrol.Unresolved, gpiocontrol.Resolve(m, pin), "mode %s pin %d", m, pin)
		}
	}
}

func TestResolveLogical(t *testing.T) {
	for pin := 2; pin <= 27; pin++ {
		assert.Equal(t, pin, gpiocontrol.Resolve(gpiocontrol.Logical, pin))
	}
}

func TestResolvePhysical(t *testing.T) {
	for pin := 2; pin <= 27; pin++ {
		assert.Equal(t, headerPins[pin], gpiocontrol.Resolve(gpiocontrol.Physical, pin), "pin %d", pin)
	}
	assert.Equal(t, 3, gpiocontrol.Resolve(gpiocontrol.Physical, 2))
	assert.Equal(t, 11, gpiocontrol.Resolve(gpiocontrol.Physical, 17))
	assert.Equal(t, 13, gpiocontrol.Resolve(gpiocontrol.Physical, 27))
}

func TestHeaderPin(t *testing.T) {
	for pin := 2; pin <= 27; pin++ {
		line, ok := gpiocontrol.HeaderPin(gpiocontrol.Resolve(gpiocontrol.Physical, pin))
		assert.True(t, ok)
		assert.Equal(t, pin, line)
	}
	// power, ground and the ID EEPROM pins
	for _, h := range []int{-1, 0, 1, 2, 4, 6, 9, 14, 17, 20, 25, 27, 28, 30, 34, 39, 41} {
		line, ok := gpiocontrol.HeaderPin(h)
		assert.False(t, ok, "header %d", h)
		assert.Equal(t, gpiocontrol.Unresolved, line)
	}
}

func TestParseMode(t *testing.T) {
	patterns := []struct {
		in   string
		mode gpiocontrol.Mode
	}{
		{"logical", gpiocontrol.Logical},
		{"BCM", gpiocontrol.Logical},
		{" physical ", gpiocontrol.Physical},
		{"board", gpiocontrol.Physical},
	}
	for _, p := range patterns {
		m, err := gpiocontrol.ParseMode(p.in)
		require.Nil(t, err, p.in)
		assert.Equal(t, p.mode, m, p.in)
	}
	_, err := gpiocontrol.ParseMode("wiringpi")
	assert.NotNil(t, err)
}
