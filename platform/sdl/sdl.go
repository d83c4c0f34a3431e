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

// Package sdl is the SDL2 platform runtime. Every joystick SDL can see
// is opened and presented as a generic gamepad. Arrivals and removals
// are noticed across polls, matching SDL's own joystick bookkeeping.
package sdl

import (
	"encoding/binary"

	"github.com/veandco/go-sdl2/sdl"

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

// how long a single rumble command keeps the motors running. the engine
// refreshes rumble by sending the command again so the exact figure only
// matters when a game stops sending
const rumbleDurationMs = 1000

// stick is one opened SDL joystick and its place in the input system.
type stick struct {
	joy *sdl.Joystick
	id  plugging.DeviceID

	controls   []*control.Control
	size       int
	numButtons int
	numAxes    int
}

// Runtime implements the platform.Runtime interface with SDL2 joysticks.
type Runtime struct {
	enableRumble bool
	deadZoneMin  float32
	deadZoneMax  float32

	sticks map[plugging.DeviceID]*stick
	known  map[sdl.JoystickID]plugging.DeviceID
}

// NewRuntime initialises SDL's joystick subsystem. The returned Runtime
// has not opened any devices yet, discovery happens on the first Poll().
func NewRuntime(cfg *config.Config) (*Runtime, error) {
	if err := sdl.InitSubSystem(sdl.INIT_JOYSTICK); err != nil {
		return nil, curated.Errorf("sdl: %v", err)
	}

	return &Runtime{
		enableRumble: cfg.Platform.EnableRumble,
		deadZoneMin:  cfg.Input.DeadZoneMin,
		deadZoneMax:  cfg.Input.DeadZoneMax,
		sticks:       make(map[plugging.DeviceID]*stick),
		known:        make(map[sdl.JoystickID]plugging.DeviceID),
	}, nil
}

// Poll implements the platform.Runtime interface.
func (r *Runtime) Poll(host platform.Host) error {
	sdl.JoystickUpdate()

	// arrivals
	for i := 0; i < sdl.NumJoysticks(); i++ {
		iid := sdl.JoystickGetDeviceInstanceID(i)
		if _, ok := r.known[iid]; ok {
			continue
		}

		joy := sdl.JoystickOpen(i)
		if joy == nil || !joy.Attached() {
			continue
		}

		controls, size := platform.GamepadLayout(joy.NumButtons(), joy.NumAxes(),
			r.deadZoneMin, r.deadZoneMax)

		spec := platform.DeviceSpec{
			Description: plugging.Description{
				InterfaceName: "SDL",
				DeviceClass:   "Gamepad",
				Product:       joy.Name(),
			},
			Controls:  controls,
			StateSize: size,
		}

		id, err := host.Connect(spec)
		if err != nil {
			logger.Logf("sdl", "cannot connect %s: %v", joy.Name(), err)
			joy.Close()
			continue
		}

		logger.Logf("sdl", "joystick: %s (%d buttons, %d axes)",
			joy.Name(), joy.NumButtons(), joy.NumAxes())

		s := &stick{
			joy:        joy,
			id:         id,
			controls:   controls,
			size:       size,
			numButtons: joy.NumButtons(),
			numAxes:    joy.NumAxes(),
		}
		r.sticks[id] = s
		r.known[joy.InstanceID()] = id
	}

	// removals
	for id, s := range r.sticks {
		if s.joy.Attached() {
			continue
		}
		logger.Logf("sdl", "joystick gone: %s", s.joy.Name())
		delete(r.known, s.joy.InstanceID())
		delete(r.sticks, id)
		s.joy.Close()
		if err := host.Disconnect(id); err != nil {
			return err
		}
	}

	// state
	now := float64(sdl.GetTicks()) / 1000.0
	for _, s := range r.sticks {
		host.PushEvent(event.NewStat(s.id, now, s.payload()))
	}

	return nil
}

// payload packs the joystick's current state into the device's layout.
func (s *stick) payload() []byte {
	p := make([]byte, s.size)

	for _, c := range s.controls {
		switch c.Kind {
		case control.Button:
			_ = c.Block.WriteBool(p, s.joy.Button(c.Index) != 0)
		case control.Axis:
			v := float32(s.joy.Axis(c.Index-s.numButtons)) / 32767.0
			if v < -1.0 {
				v = -1.0
			}
			_ = c.Block.WriteFloat(p, v)
		}
		// vector2 controls alias the axis bytes
	}

	return p
}

// ExecuteCommand implements the command.Executor interface.
func (r *Runtime) ExecuteCommand(id plugging.DeviceID, data []byte) int64 {
	if len(data) < command.HeaderSize {
		return command.StatusFailure
	}

	s, ok := r.sticks[id]
	if !ok {
		return command.StatusFailure
	}

	switch fourcc.FourCC(binary.BigEndian.Uint32(data)) {
	case command.SyncType:
		// the next poll pushes a full state event anyway
		return command.StatusSuccess

	case command.EnabledStateType:
		data[command.HeaderSize] = 0
		if s.joy.Attached() {
			data[command.HeaderSize] = 1
		}
		return command.StatusSuccess

	case command.RumbleType:
		if !r.enableRumble {
			return command.StatusNotSupported
		}
		low := binary.LittleEndian.Uint16(data[command.HeaderSize:])
		high := binary.LittleEndian.Uint16(data[command.HeaderSize+2:])
		if err := s.joy.Rumble(low, high, rumbleDurationMs); err != nil {
			return command.StatusFailure
		}
		return command.StatusSuccess
	}

	return command.StatusNotSupported
}

// Close implements the platform.Runtime interface.
func (r *Runtime) Close() error {
	for _, s := range r.sticks {
		s.joy.Close()
	}
	r.sticks = make(map[plugging.DeviceID]*stick)
	r.known = make(map[sdl.JoystickID]plugging.DeviceID)
	sdl.QuitSubSystem(sdl.INIT_JOYSTICK)
	return nil
}
