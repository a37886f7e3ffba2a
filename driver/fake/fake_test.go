// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package fake_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiocontrol"
	"github.com/warthog618/go-gpiocontrol/driver/fake"
)

func TestMode(t *testing.T) {
	d := fake.New()
	_, ok := d.Mode()
	assert.False(t, ok)
	require.Nil(t, d.SetMode(gpiocontrol.Physical))
	m, ok := d.Mode()
	assert.True(t, ok)
	assert.Equal(t, gpiocontrol.Physical, m)

	d = fake.New(fake.WithMode(gpiocontrol.Logical))
	m, ok = d.Mode()
	assert.True(t, ok)
	assert.Equal(t, gpiocontrol.Logical, m)
}

func TestLifecycle(t *testing.T) {
	d := fake.New()
	_, err := d.Read(4)
	assert.ErrorIs(t, err, fake.ErrNotRequested)
	assert.ErrorIs(t, d.Write(4, gpiocontrol.High), fake.ErrNotRequested)
	assert.ErrorIs(t, d.Cleanup(4), fake.ErrNotRequested)

	require.Nil(t, d.SetupOutput(4))
	l, ok := d.Level(4)
	assert.True(t, ok)
	assert.Equal(t, gpiocontrol.Low, l)
	assert.Equal(t, 1, d.Setups(4))

	require.Nil(t, d.Write(4, gpiocontrol.High))
	l, err = d.Read(4)
	require.Nil(t, err)
	assert.Equal(t, gpiocontrol.High, l)

	// reconfiguring a held line keeps its level
	require.Nil(t, d.SetupOutput(4))
	assert.Equal(t, 2, d.Setups(4))
	l, err = d.Read(4)
	require.Nil(t, err)
	assert.Equal(t, gpiocontrol.High, l)

	d.Force(4, gpiocontrol.Low)
	l, ok = d.Level(4)
	assert.True(t, ok)
	assert.Equal(t, gpiocontrol.Low, l)

	// forcing an unheld line has no effect
	d.Force(5, gpiocontrol.High)
	_, ok = d.Level(5)
	assert.False(t, ok)

	require.Nil(t, d.Write(4, gpiocontrol.High))
	require.Nil(t, d.Cleanup(4))
	_, ok = d.Level(4)
	assert.False(t, ok)
	_, err = d.Read(4)
	assert.ErrorIs(t, err, fake.ErrNotRequested)

	// the line returns at the level it was released at
	require.Nil(t, d.SetupOutput(4))
	assert.Equal(t, 3, d.Setups(4))
	l, ok = d.Level(4)
	assert.True(t, ok)
	assert.Equal(t, gpiocontrol.High, l)
}

func TestLinesAndClose(t *testing.T) {
	d := fake.New()
	for _, l := range []int{22, 4, 17} {
		require.Nil(t, d.SetupOutput(l))
	}
	assert.Equal(t, []int{4, 17, 22}, d.Lines())
	require.Nil(t, d.Close())
	assert.Empty(t, d.Lines())
}

func TestFail(t *testing.T) {
	d := fake.New()
	bang := errors.New("bang")

	d.Fail(fake.OpSetMode, 12, bang)
	assert.Equal(t, bang, d.SetMode(gpiocontrol.Logical))
	d.Fail(fake.OpSetMode, 0, nil)
	assert.Nil(t, d.SetMode(gpiocontrol.Logical))

	d.Fail(fake.OpSetup, 4, bang)
	assert.Equal(t, bang, d.SetupOutput(4))
	require.Nil(t, d.SetupOutput(5))
	d.Fail(fake.OpSetup, 4, nil)
	require.Nil(t, d.SetupOutput(4))

	d.Fail(fake.OpWrite, 4, bang)
	assert.Equal(t, bang, d.Write(4, gpiocontrol.High))
	d.Fail(fake.OpRead, 4, bang)
	_, err := d.Read(4)
	assert.Equal(t, bang, err)
	d.Fail(fake.OpCleanup, 4, bang)
	assert.Equal(t, bang, d.Cleanup(4))
	_, ok := d.Level(4)
	assert.True(t, ok)
}
