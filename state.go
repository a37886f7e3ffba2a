// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiocontrol

import "maps"

// StateStore records the last commanded State of each line.
//
// A StateStore is not safe for concurrent use.  The Controller serialises
// access to its store.
type StateStore struct {
	states map[int]State
}

// NewStateStore returns an empty store.
func NewStateStore() *StateStore {
	return &StateStore{states: make(map[int]State)}
}

// Get returns the state recorded for the line, and false if none has been
// recorded.
func (s *StateStore) Get(line int) (State, bool) {
	st, ok := s.states[line]
	return st, ok
}

// Set records the state of the line.
func (s *StateStore) Set(line int, st State) {
	s.states[line] = st
}

// Delete forgets the state of the line.
func (s *StateStore) Delete(line int) {
	delete(s.states, line)
}

// Len returns the number of lines with a recorded state.
func (s *StateStore) Len() int {
	return len(s.states)
}

// Reset forgets all recorded states.
func (s *StateStore) Reset() {
	s.states = make(map[int]State)
}

// Snapshot returns a copy of the recorded states.
func (s *StateStore) Snapshot() map[int]State {
	return maps.Clone(s.states)
}
