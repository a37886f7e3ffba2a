// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package gpiosim creates gpio-sim chips for exercising line drivers against
// the Linux GPIO uAPI.
//
// The simulators are provided by the Linux gpio-sim kernel module, which
// requires kernel 5.19 or later built with CONFIG_GPIO_SIM.  Configuring a
// simulator involves configfs, and reading line levels involves sysfs, so root
// permissions are typically required.  When the module is not available
// NewSim returns an error wrapping ErrUnavailable.
package gpiosim

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
)

// ErrUnavailable indicates the gpio-sim module could not be found or loaded.
var ErrUnavailable = errors.New("gpio-sim unavailable")

// Sim is a live simulator containing one chip per Bank.
type Sim struct {
	// The name of the simulator in configfs and sysfs space.
	Name string

	// The simulated chips, in the order the banks were provided.
	Chips []Chip

	configfsPath string
}

// NewSim constructs a Sim containing the banks and takes it live.
func NewSim(banks ...*Bank) (*Sim, error) {
	if len(banks) == 0 {
		return nil, errors.New("no banks defined")
	}
	root, err := findConfigfsPath()
	if err != nil {
		return nil, err
	}
	name := uniqueName()
	s := &Sim{Name: name, configfsPath: path.Join(root, name)}
	for _, b := range banks {
		s.Chips = append(s.Chips, Chip{cfg: *b})
	}
	if err := s.live(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close removes the simulator and its gpiochips.
func (s *Sim) Close() {
	s.cleanupConfigfs()
	s.Chips = nil
}

func (s *Sim) live() error {
	if err := s.setupConfigfs(); err != nil {
		return err
	}
	if err := writeAttr(s.configfsPath, "live", "1"); err != nil {
		return err
	}
	devName, err := readAttr(s.configfsPath, "dev_name")
	if err != nil {
		return err
	}
	for i := range s.Chips {
		chipName, err := readAttr(s.bankPath(i), "chip_name")
		if err != nil {
			return err
		}
		devPath := path.Join("/dev", chipName)
		stat, err := os.Lstat(devPath)
		if err != nil {
			return err
		}
		if stat.Mode()&fs.ModeSymlink != 0 {
			return errors.Errorf("a symlink (%s) is masking GPIO device %s", devPath, chipName)
		}
		c := &s.Chips[i]
		c.chipName = chipName
		c.devPath = devPath
		c.sysfsPath = path.Join("/sys/devices/platform", devName, chipName)
	}
	return nil
}

func (s *Sim) bankPath(i int) string {
	return path.Join(s.configfsPath, fmt.Sprintf("bank%d", i))
}

func (s *Sim) setupConfigfs() error {
	for i, c := range s.Chips {
		bankPath := s.bankPath(i)
		if err := os.MkdirAll(bankPath, 0755); err != nil {
			return err
		}
		if err := writeAttr(bankPath, "label", c.cfg.Label); err != nil {
			return err
		}
		if err := writeAttr(bankPath, "num_lines", fmt.Sprintf("%d", c.cfg.NumLines)); err != nil {
			return err
		}
		for o, n := range c.cfg.Names {
			linePath := path.Join(bankPath, fmt.Sprintf("line%d", o))
			if err := os.MkdirAll(linePath, 0755); err != nil {
				return err
			}
			if err := writeAttr(linePath, "name", n); err != nil {
				return err
			}
		}
		for o, consumer := range c.cfg.Hogs {
			hogPath := path.Join(bankPath, fmt.Sprintf("line%d", o), "hog")
			if err := os.MkdirAll(hogPath, 0755); err != nil {
				return err
			}
			if err := writeAttr(hogPath, "name", consumer); err != nil {
				return err
			}
			if err := writeAttr(hogPath, "direction", "input"); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Sim) cleanupConfigfs() {
	// ignore failure, the removals below still apply to a dead sim
	writeAttr(s.configfsPath, "live", "0")
	for i, c := range s.Chips {
		bankPath := s.bankPath(i)
		if _, err := os.Stat(bankPath); err != nil {
			continue
		}
		lines := make(map[int]struct{})
		for o := range c.cfg.Names {
			lines[o] = struct{}{}
		}
		for o := range c.cfg.Hogs {
			os.Remove(path.Join(bankPath, fmt.Sprintf("line%d", o), "hog"))
			lines[o] = struct{}{}
		}
		for o := range lines {
			os.Remove(path.Join(bankPath, fmt.Sprintf("line%d", o)))
		}
		os.Remove(bankPath)
	}
	os.Remove(s.configfsPath)
}

// findConfigfsPath finds the location of gpio-sim in configfs, loading the
// module if necessary.
func findConfigfsPath() (string, error) {
	configfs := "/sys/kernel/config/gpio-sim"
	if _, err := os.Stat(configfs); err == nil {
		return configfs, nil
	}
	cmd := exec.Command("modprobe", "gpio-sim")
	if err := cmd.Run(); err == nil {
		if _, err := os.Stat(configfs); err == nil {
			return configfs, nil
		}
	}
	if mp, err := configfsMountPoint(); err == nil {
		configfs = path.Join(mp, "gpio-sim")
		if _, err := os.Stat(configfs); err == nil {
			return configfs, nil
		}
	}
	return "", errors.Wrap(ErrUnavailable, "module not loaded")
}

// configfsMountPoint finds where configfs is mounted, mounting it in the usual
// location if it is not.
func configfsMountPoint() (string, error) {
	file, err := os.Open("/proc/mounts")
	if err != nil {
		return "", err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		words := strings.Fields(scanner.Text())
		if len(words) >= 6 && words[2] == "configfs" {
			return words[1], nil
		}
	}
	configfs := "/sys/kernel/config"
	cmd := exec.Command("mount", "-t", "configfs", "configfs", configfs)
	if err = cmd.Run(); err == nil {
		return configfs, nil
	}
	return "", errors.Wrap(ErrUnavailable, "can't find configfs mountpoint")
}

var simCounter uint32

// uniqueName returns a name for the sim built from the executable name, PID
// and a counter.
func uniqueName() string {
	app := "gpiocontrol"
	if exe, err := os.Executable(); err == nil {
		app = path.Base(exe)
	}
	return fmt.Sprintf("%s-p%d-%d", app, os.Getpid(), atomic.AddUint32(&simCounter, 1))
}

func readAttr(p, attr string) (string, error) {
	data, err := os.ReadFile(path.Join(p, attr))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func writeAttr(p, attr, value string) error {
	return os.WriteFile(path.Join(p, attr), []byte(value), 0666)
}
