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

//go:build linux

// Package evdev is the Linux platform runtime. Joystick-class devices
// under /dev/input are read directly, without SDL. Hotplug arrivals are
// noticed through an fsnotify watch on the /dev/input directory,
// removals through the read side reporting ENODEV.
package evdev

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sys/unix"

	"github.com/tregarth/switchboard/config"
	"github.com/tregarth/switchboard/curated"
	"github.com/tregarth/switchboard/input/command"
	"github.com/tregarth/switchboard/input/control"
	"github.com/tregarth/switchboard/input/event"
	"github.com/tregarth/switchboard/input/fourcc"
	"github.com/tregarth/switchboard/input/plugging"
	"github.com/tregarth/switchboard/logger"
	"github.com/tregarth/switchboard/platform"
)

const inputDir = "/dev/input"

// input event types and codes from linux/input-event-codes.h
const (
	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03

	synReport = 0x00

	// key codes in this range belong to joysticks and gamepads. a device
	// with none of them is not our kind of device
	btnJoystick = 0x120
	btnThumbr   = 0x13e

	keyMax = 0x2ff
	absMax = 0x3f
)

// the input_event struct on 64-bit kernels: two 64-bit time fields
// followed by type, code and value
const rawEventSize = 24

// eviocg builds the ioctl request number for the EVIOCG* read ioctls.
// 'E' is the evdev ioctl type.
func eviocg(nr uintptr, size uintptr) uintptr {
	return 2<<30 | size<<16 | 'E'<<8 | nr
}

// ioctlRead fills buf from the device ioctl nr.
func ioctlRead(fd int, nr uintptr, buf []byte) error {
	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		uintptr(fd),
		eviocg(nr, uintptr(len(buf))),
		uintptr(unsafe.Pointer(&buf[0])),
	)
	if errno != 0 {
		return errno
	}
	return nil
}

// absRange is the reported range of an absolute axis, used to normalise
// raw values into [-1, 1].
type absRange struct {
	min int32
	max int32
}

// pad is one opened event device and its place in the input system.
type pad struct {
	fd   int
	path string
	id   plugging.DeviceID

	controls []*control.Control
	size     int

	// key/abs code to control index
	buttons map[uint16]int
	axes    map[uint16]int
	ranges  map[uint16]absRange

	// the device's state as assembled from the event stream. pushed as
	// a full state event at every sync report
	shadow []byte

	// set when the engine asked for a resync. the shadow is pushed on
	// the next poll even without a sync report
	resync bool

	// scratch for reads
	buf []byte
}

// Runtime implements the platform.Runtime interface by reading
// /dev/input event devices directly.
type Runtime struct {
	deadZoneMin float32
	deadZoneMax float32

	pads   map[plugging.DeviceID]*pad
	byPath map[string]plugging.DeviceID

	watcher *fsnotify.Watcher

	// paths seen by the watcher but not yet opened
	pending []string
}

// NewRuntime scans /dev/input for joystick-class devices and starts the
// hotplug watch. Rumble is not supported by this runtime: evdev force
// feedback needs per-effect upload which the generic command set does
// not model.
func NewRuntime(cfg *config.Config) (*Runtime, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, curated.Errorf("evdev: %v", err)
	}
	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, curated.Errorf("evdev: %v", err)
	}

	r := &Runtime{
		deadZoneMin: cfg.Input.DeadZoneMin,
		deadZoneMax: cfg.Input.DeadZoneMax,
		pads:        make(map[plugging.DeviceID]*pad),
		byPath:      make(map[string]plugging.DeviceID),
		watcher:     watcher,
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		watcher.Close()
		return nil, curated.Errorf("evdev: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "event") {
			r.pending = append(r.pending, filepath.Join(inputDir, e.Name()))
		}
	}

	return r, nil
}

// Poll implements the platform.Runtime interface.
func (r *Runtime) Poll(host platform.Host) error {
	r.drainWatcher()

	for _, path := range r.pending {
		r.open(path, host)
	}
	r.pending = r.pending[:0]

	for id, p := range r.pads {
		gone, err := p.pump(host)
		if err != nil {
			return err
		}
		if gone {
			logger.Logf("evdev", "device gone: %s", p.path)
			delete(r.byPath, p.path)
			delete(r.pads, id)
			unix.Close(p.fd)
			if err := host.Disconnect(id); err != nil {
				return err
			}
		}
	}

	return nil
}

// drainWatcher moves hotplug arrivals from the fsnotify channel to the
// pending list. Never blocks.
func (r *Runtime) drainWatcher() {
	for {
		select {
		case ev, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) && strings.HasPrefix(filepath.Base(ev.Name), "event") {
				r.pending = append(r.pending, ev.Name)
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			logger.Logf("evdev", "watcher: %v", err)
		default:
			return
		}
	}
}

// open probes the device at path and connects it if it looks like a
// joystick or gamepad. Silently skips keyboards, mice and devices we
// cannot read.
func (r *Runtime) open(path string, host platform.Host) {
	if _, ok := r.byPath[path]; ok {
		return
	}

	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}

	name := deviceName(fd)
	buttons := keyCodes(fd)
	axes := absCodes(fd)

	if len(buttons) == 0 {
		unix.Close(fd)
		return
	}

	controls, size := platform.GamepadLayout(len(buttons), len(axes),
		r.deadZoneMin, r.deadZoneMax)

	spec := platform.DeviceSpec{
		Description: plugging.Description{
			InterfaceName: "evdev",
			DeviceClass:   "Gamepad",
			Product:       name,
		},
		Controls:  controls,
		StateSize: size,
	}

	id, err := host.Connect(spec)
	if err != nil {
		logger.Logf("evdev", "cannot connect %s: %v", name, err)
		unix.Close(fd)
		return
	}

	logger.Logf("evdev", "%s: %s (%d buttons, %d axes)", path, name, len(buttons), len(axes))

	p := &pad{
		fd:       fd,
		path:     path,
		id:       id,
		controls: controls,
		size:     size,
		buttons:  make(map[uint16]int),
		axes:     make(map[uint16]int),
		ranges:   make(map[uint16]absRange),
		shadow:   make([]byte, size),
		buf:      make([]byte, rawEventSize*64),
	}
	for i, code := range buttons {
		p.buttons[code] = i
	}
	for i, code := range axes {
		p.axes[code] = len(buttons) + i
		p.ranges[code] = absInfo(fd, code)
	}

	r.pads[id] = p
	r.byPath[path] = id
}

// pump reads every queued kernel event for the pad and pushes a state
// event at each sync report. Returns true if the device has gone away.
func (p *pad) pump(host platform.Host) (bool, error) {
	dirty := p.resync
	p.resync = false
	var when float64

	for {
		n, err := unix.Read(p.fd, p.buf)
		if err != nil {
			if err == unix.EAGAIN {
				break
			}
			if err == unix.ENODEV {
				return true, nil
			}
			return false, curated.Errorf("evdev: %s: %v", p.path, err)
		}

		for o := 0; o+rawEventSize <= n; o += rawEventSize {
			sec := int64(binary.LittleEndian.Uint64(p.buf[o:]))
			usec := int64(binary.LittleEndian.Uint64(p.buf[o+8:]))
			typ := binary.LittleEndian.Uint16(p.buf[o+16:])
			code := binary.LittleEndian.Uint16(p.buf[o+18:])
			value := int32(binary.LittleEndian.Uint32(p.buf[o+20:]))

			when = float64(sec) + float64(usec)/1e6

			switch typ {
			case evKey:
				if idx, ok := p.buttons[code]; ok {
					_ = p.controls[idx].Block.WriteBool(p.shadow, value != 0)
					dirty = true
				}
			case evAbs:
				if idx, ok := p.axes[code]; ok {
					_ = p.controls[idx].Block.WriteFloat(p.shadow, p.normalise(code, value))
					dirty = true
				}
			case evSyn:
				if code == synReport && dirty {
					payload := make([]byte, len(p.shadow))
					copy(payload, p.shadow)
					host.PushEvent(event.NewStat(p.id, when, payload))
					dirty = false
				}
			}
		}
	}

	// a resync without fresh kernel events still pushes the shadow
	if dirty {
		payload := make([]byte, len(p.shadow))
		copy(payload, p.shadow)
		host.PushEvent(event.NewStat(p.id, when, payload))
	}

	return false, nil
}

// normalise maps a raw absolute axis value into [-1, 1] using the range
// the kernel reported for the axis.
func (p *pad) normalise(code uint16, value int32) float32 {
	rng := p.ranges[code]
	if rng.max <= rng.min {
		return 0
	}
	v := 2.0*float32(value-rng.min)/float32(rng.max-rng.min) - 1.0
	if v < -1.0 {
		v = -1.0
	}
	if v > 1.0 {
		v = 1.0
	}
	return v
}

// ExecuteCommand implements the command.Executor interface.
func (r *Runtime) ExecuteCommand(id plugging.DeviceID, data []byte) int64 {
	if len(data) < command.HeaderSize {
		return command.StatusFailure
	}

	p, ok := r.pads[id]
	if !ok {
		return command.StatusFailure
	}

	switch fourcc.FourCC(binary.BigEndian.Uint32(data)) {
	case command.SyncType:
		p.resync = true
		return command.StatusSuccess

	case command.EnabledStateType:
		data[command.HeaderSize] = 1
		return command.StatusSuccess
	}

	return command.StatusNotSupported
}

// Close implements the platform.Runtime interface.
func (r *Runtime) Close() error {
	for _, p := range r.pads {
		unix.Close(p.fd)
	}
	r.pads = make(map[plugging.DeviceID]*pad)
	r.byPath = make(map[string]plugging.DeviceID)
	return r.watcher.Close()
}

// deviceName asks the kernel for the device's human-readable name.
func deviceName(fd int) string {
	buf := make([]byte, 256)
	if err := ioctlRead(fd, 0x06, buf); err != nil {
		return "unknown"
	}
	if i := strings.IndexByte(string(buf), 0); i >= 0 {
		return string(buf[:i])
	}
	return string(buf)
}

// keyCodes returns the joystick-range key codes the device can emit, in
// ascending order. The order gives each button its control index.
func keyCodes(fd int) []uint16 {
	bits := make([]byte, keyMax/8+1)
	if err := ioctlRead(fd, 0x20+evKey, bits); err != nil {
		return nil
	}

	var codes []uint16
	for code := btnJoystick; code <= btnThumbr; code++ {
		if bits[code/8]&(1<<(code%8)) != 0 {
			codes = append(codes, uint16(code))
		}
	}
	return codes
}

// absCodes returns the absolute axis codes the device can emit, in
// ascending order.
func absCodes(fd int) []uint16 {
	bits := make([]byte, absMax/8+1)
	if err := ioctlRead(fd, 0x20+evAbs, bits); err != nil {
		return nil
	}

	var codes []uint16
	for code := 0; code <= absMax; code++ {
		if bits[code/8]&(1<<(code%8)) != 0 {
			codes = append(codes, uint16(code))
		}
	}
	return codes
}

// absInfo reads the kernel's input_absinfo for an axis. Only the range
// fields matter to us.
func absInfo(fd int, code uint16) absRange {
	buf := make([]byte, 24)
	if err := ioctlRead(fd, uintptr(0x40+code), buf); err != nil {
		return absRange{}
	}
	return absRange{
		min: int32(binary.LittleEndian.Uint32(buf[4:])),
		max: int32(binary.LittleEndian.Uint32(buf[8:])),
	}
}
