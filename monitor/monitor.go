// This file is part of Switchboard.
//
// Switchboard is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Switchboard is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Switchboard.  If not, see <https://www.gnu.org/licenses/>.

// Package monitor is a terminal view of the live device table. It is
// meant to be driven from the engine's run loop: Render() once per tick
// and Check() for keyboard input.
//
// Keys:
//
//	q         quit
//	n         select next device
//	r         rumble test on the selected device
//	d         dump the device tree as a graphviz dot file
package monitor

import (
	"fmt"
	"os"
	"syscall"

	"github.com/bradleyjkemp/memviz"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"

	"github.com/tregarth/switchboard/curated"
	"github.com/tregarth/switchboard/input"
	"github.com/tregarth/switchboard/input/buffers"
	"github.com/tregarth/switchboard/input/control"
	"github.com/tregarth/switchboard/logger"
)

// the file the 'd' key writes the device tree to
const dumpFile = "switchboard_devices.dot"

// ansi sequences for screen handling
const (
	clearScreen = "\033[2J\033[H"
	reverse     = "\033[7m"
	normal      = "\033[0m"
)

// Monitor is an interactive terminal view of an input system.
type Monitor struct {
	sys *input.System

	inp *os.File
	out *os.File

	// terminal attributes on entry, restored by CleanUp()
	canAttr    unix.Termios
	cbreakAttr unix.Termios

	// index into sys.Devices() of the highlighted device
	selected int
}

// NewMonitor puts the terminal into cbreak mode and returns the monitor.
// CleanUp() must be called before the program exits or the user's
// terminal is left in a mess.
func NewMonitor(sys *input.System) (*Monitor, error) {
	m := &Monitor{
		sys: sys,
		inp: os.Stdin,
		out: os.Stdout,
	}

	if err := termios.Tcgetattr(m.inp.Fd(), &m.canAttr); err != nil {
		return nil, curated.Errorf("monitor: %v", err)
	}
	m.cbreakAttr = m.canAttr
	termios.Cfmakecbreak(&m.cbreakAttr)
	if err := termios.Tcsetattr(m.inp.Fd(), termios.TCIFLUSH, &m.cbreakAttr); err != nil {
		return nil, curated.Errorf("monitor: %v", err)
	}

	// reads must not block the engine tick
	if err := syscall.SetNonblock(int(m.inp.Fd()), true); err != nil {
		_ = termios.Tcsetattr(m.inp.Fd(), termios.TCIFLUSH, &m.canAttr)
		return nil, curated.Errorf("monitor: %v", err)
	}

	return m, nil
}

// CleanUp returns the terminal to canonical mode.
func (m *Monitor) CleanUp() {
	_ = syscall.SetNonblock(int(m.inp.Fd()), false)
	_ = termios.Tcsetattr(m.inp.Fd(), termios.TCIFLUSH, &m.canAttr)
	fmt.Fprint(m.out, normal)
}

// Check polls the keyboard. Returns false when the user has asked to
// quit.
func (m *Monitor) Check() bool {
	b := make([]byte, 1)
	n, err := m.inp.Read(b)
	if err != nil || n == 0 {
		return true
	}

	devs := m.sys.Devices()

	switch b[0] {
	case 'q':
		return false

	case 'n':
		if len(devs) > 0 {
			m.selected = (m.selected + 1) % len(devs)
		}

	case 'r':
		if m.selected < len(devs) {
			status, err := devs[m.selected].Rumble(0xc000, 0xc000)
			if err != nil {
				logger.Logf("monitor", "rumble: %v", err)
			} else if status < 0 {
				logger.Logf("monitor", "rumble refused (%d)", status)
			}
		}

	case 'd':
		if err := m.dump(); err != nil {
			logger.Logf("monitor", "dump: %v", err)
		}
	}

	return true
}

// Render draws the device table.
func (m *Monitor) Render() {
	devs := m.sys.Devices()
	if m.selected >= len(devs) {
		m.selected = 0
	}

	fmt.Fprint(m.out, clearScreen)
	fmt.Fprintf(m.out, "%d device(s)   [q]uit [n]ext [r]umble [d]ump\r\n\r\n", len(devs))

	for i, d := range devs {
		if i == m.selected {
			fmt.Fprintf(m.out, "%s%s%s\r\n", reverse, d.String(), normal)
		} else {
			fmt.Fprintf(m.out, "%s\r\n", d.String())
		}

		cur, err := d.CurrentState(buffers.Dynamic)
		if err != nil {
			fmt.Fprintf(m.out, "  %v\r\n", err)
			continue
		}

		for _, c := range d.Controls() {
			fmt.Fprintf(m.out, "  %-12s %s\r\n", c.Name, controlValue(c, cur))
		}
	}
}

// controlValue formats a control's processed value for display.
func controlValue(c *control.Control, region []byte) string {
	switch c.Kind {
	case control.Vector2:
		x, y, err := c.ValueXY(region)
		if err != nil {
			return err.Error()
		}
		return fmt.Sprintf("(%+.3f, %+.3f)", x, y)
	default:
		v, err := c.Value(region)
		if err != nil {
			return err.Error()
		}
		return fmt.Sprintf("%+.3f", v)
	}
}

// dump writes the device tree to the dump file as a graphviz dot graph.
func (m *Monitor) dump() error {
	f, err := os.Create(dumpFile)
	if err != nil {
		return curated.Errorf("monitor: %v", err)
	}
	defer f.Close()

	devs := m.sys.Devices()
	memviz.Map(f, &devs)

	logger.Logf("monitor", "device tree written to %s", dumpFile)
	return nil
}
