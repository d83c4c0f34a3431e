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

// Package platform defines the contract between the input system and the
// code that talks to actual hardware. A Runtime is the hardware side:
// it discovers devices, reports their state as events and executes
// device commands. The Session type in this package binds a Runtime to
// an input.System and drives both from the engine's tick.
//
// Everything here runs on the engine goroutine. Runtimes that need to
// listen to the outside world asynchronously must marshal their findings
// into the Poll() call rather than touching the Host directly.
package platform

import (
	"github.com/tregarth/switchboard/input/command"
	"github.com/tregarth/switchboard/input/control"
	"github.com/tregarth/switchboard/input/event"
	"github.com/tregarth/switchboard/input/plugging"
)

// DeviceSpec is everything a Runtime knows about a device it has
// discovered: the description, the flattened control layout and the byte
// size of the device's state.
type DeviceSpec struct {
	Description plugging.Description
	Controls    []*control.Control
	StateSize   int
}

// Host is the Runtime's view of the input system. Runtimes call back
// into the Host from inside Poll().
type Host interface {
	// a device has appeared. the returned id identifies the device in
	// all future events and commands
	Connect(spec DeviceSpec) (plugging.DeviceID, error)

	// a previously connected device has gone away
	Disconnect(id plugging.DeviceID) error

	// queue a state event for the next update tick
	PushEvent(ev event.State)
}

// Runtime is a source of input devices and their state.
//
// ExecuteCommand() is inherited from command.Executor: the runtime is the
// far end of every device's command channel.
type Runtime interface {
	command.Executor

	// called once per engine tick, before the input system's update.
	// the runtime reports device arrivals and removals and pushes any
	// new state through the host
	Poll(host Host) error

	// release the runtime's hardware resources
	Close() error
}
