// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package settings persists the ordered list of switch configurations in a
// YAML file and notifies listeners when it is saved.
//
// The file contains a single gpio_configurations list:
//
//	gpio_configurations:
//	  - pin: 17
//	    active_mode: active_high
//	    default_state: default_on
//	    name: fan
//	  - pin: 4
//	    active_mode: active_low
//	    name: light
package settings

import (
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocontrol"
	"gopkg.in/yaml.v3"
)

// Record is the persisted form of a gpiocontrol.Configuration.
type Record struct {
	Pin          int    `yaml:"pin" json:"pin"`
	ActiveMode   string `yaml:"active_mode" json:"active_mode"`
	DefaultState string `yaml:"default_state,omitempty" json:"default_state,omitempty"`
	Name         string `yaml:"name" json:"name"`
}

// Configuration parses the record.
func (r Record) Configuration() (gpiocontrol.Configuration, error) {
	return gpiocontrol.ParseConfiguration(r.Pin, r.ActiveMode, r.DefaultState, r.Name)
}

// Parse parses each of the records, failing on the first invalid record.
func Parse(records []Record) ([]gpiocontrol.Configuration, error) {
	cfgs := make([]gpiocontrol.Configuration, len(records))
	for i, r := range records {
		cfg, err := r.Configuration()
		if err != nil {
			return nil, errors.Wrapf(err, "gpio_configurations[%d]", i)
		}
		cfgs[i] = cfg
	}
	return cfgs, nil
}

// Listener is called with the parsed configurations after they are saved.
type Listener func([]gpiocontrol.Configuration) error

type document struct {
	Configurations []Record `yaml:"gpio_configurations"`
}

// Store holds the records persisted in a file.
type Store struct {
	// serialises Saves, including their listeners
	saveMu sync.Mutex

	mu        sync.Mutex
	path      string
	records   []Record
	listeners []Listener
}

// Open loads the records from the file at path.
//
// A missing file is treated as an empty list, and is created by the first
// Save.  Files containing invalid records are rejected.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrap(err, "read settings")
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parse settings %s", path)
	}
	if _, err := Parse(doc.Configurations); err != nil {
		return nil, errors.Wrapf(err, "settings %s", path)
	}
	s.records = doc.Configurations
	return s, nil
}

// Path returns the path of the settings file.
func (s *Store) Path() string {
	return s.path
}

// Records returns a copy of the current records.
func (s *Store) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records)
}

// Configurations returns the parsed current records.
func (s *Store) Configurations() ([]gpiocontrol.Configuration, error) {
	return Parse(s.Records())
}

// OnSave adds a listener to be called after each successful Save.
//
// Listeners are called in the order they were added.  Listeners added while
// a Save is in progress are first called by the next Save.
func (s *Store) OnSave(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Save validates and persists the records, then calls the listeners.
//
// Invalid records are rejected, leaving the store unchanged.  Once persisted,
// all listeners are called even if some fail, and the first failure is
// returned.
//
// Concurrent Saves are serialised, so the listeners of one Save complete
// before the next Save writes the file.  Listeners must not call Save.
func (s *Store) Save(records []Record) error {
	cfgs, err := Parse(records)
	if err != nil {
		return err
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if err := s.write(records); err != nil {
		s.mu.Unlock()
		return err
	}
	s.records = slices.Clone(records)
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	var first error
	for _, l := range listeners {
		if err := l(slices.Clone(cfgs)); err != nil && first == nil {
			first = errors.Wrap(err, "on save")
		}
	}
	return first
}

// write replaces the file via a rename so a failed write leaves the previous
// settings intact.
func (s *Store) write(records []Record) error {
	data, err := yaml.Marshal(document{Configurations: records})
	if err != nil {
		return errors.Wrap(err, "marshal settings")
	}
	dir := filepath.Dir(s.path)
	f, err := os.CreateTemp(dir, filepath.Base(s.path)+".*")
	if err != nil {
		return errors.Wrap(err, "write settings")
	}
	tmp := f.Name()
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, s.path)
	}
	if err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "write settings")
	}
	return nil
}
