// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiocontrol

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownIndex indicates a command referenced an entry beyond the end of
// the configuration list.
var ErrUnknownIndex = errors.New("unknown configuration index")

// ErrUnknownCommand indicates a command name was not recognised.
var ErrUnknownCommand = errors.New("unknown command")

// ApplyError contains the driver faults encountered while applying a batch of
// configurations.
type ApplyError struct {
	Errors []error
}

func (e *ApplyError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return "apply configurations failed:\n  - " + strings.Join(msgs, "\n  - ")
}

// Unwrap returns the individual faults.
func (e *ApplyError) Unwrap() []error {
	return e.Errors
}

func (e *ApplyError) add(err error) {
	e.Errors = append(e.Errors, err)
}

func (e *ApplyError) errOrNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// ReleaseError contains the faults encountered while releasing a set of
// lines, such as when closing a driver.
type ReleaseError struct {
	Errors []error
}

func (e *ReleaseError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return "release lines failed:\n  - " + strings.Join(msgs, "\n  - ")
}

// Unwrap returns the individual faults.
func (e *ReleaseError) Unwrap() []error {
	return e.Errors
}
