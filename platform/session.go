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

package platform

import (
	"github.com/tregarth/switchboard/curated"
	"github.com/tregarth/switchboard/input"
	"github.com/tregarth/switchboard/input/buffers"
	"github.com/tregarth/switchboard/input/command"
	"github.com/tregarth/switchboard/input/device"
	"github.com/tregarth/switchboard/input/event"
	"github.com/tregarth/switchboard/input/plugging"
)

// Session binds a Runtime to an input System. It implements the Host
// interface on the system's behalf and gives the engine's run loop a
// single Tick() to call.
type Session struct {
	sys *input.System
	rt  Runtime

	// every device connected through this session shares one channel to
	// the runtime
	channel *command.Channel
}

// NewSession is the preferred method of initialisation for the Session
// type.
func NewSession(sys *input.System, rt Runtime) *Session {
	return &Session{
		sys:     sys,
		rt:      rt,
		channel: command.NewChannel(rt),
	}
}

// Connect implements the Host interface.
func (s *Session) Connect(spec DeviceSpec) (plugging.DeviceID, error) {
	dev := device.New(spec.Description, spec.Controls, spec.StateSize, s.channel)
	dev.SetFlags(device.Native)
	if err := s.sys.AddDevice(dev); err != nil {
		return plugging.InvalidDeviceID, err
	}
	return dev.ID(), nil
}

// Disconnect implements the Host interface.
func (s *Session) Disconnect(id plugging.DeviceID) error {
	return s.sys.RemoveDevice(id)
}

// PushEvent implements the Host interface.
func (s *Session) PushEvent(ev event.State) {
	s.sys.PushEvent(ev)
}

// Tick runs one engine tick: the runtime is polled and the system's
// Dynamic phase is updated. Callers that want a BeforeRender update run
// it themselves between Tick() and rendering.
func (s *Session) Tick(time float64) error {
	s.sys.SetClock(time)

	if err := s.rt.Poll(s); err != nil {
		return curated.Errorf("platform: %v", err)
	}

	return s.sys.Update(buffers.Dynamic)
}

// Close releases the runtime. The system and its devices survive but
// every device connected through this session is removed first.
func (s *Session) Close() error {
	for _, d := range s.sys.Devices() {
		if d.Flags()&device.Native == device.Native {
			_ = s.sys.RemoveDevice(d.ID())
		}
	}
	return s.rt.Close()
}
