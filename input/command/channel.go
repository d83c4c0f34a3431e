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

package command

import (
	"github.com/tregarth/switchboard/curated"
	"github.com/tregarth/switchboard/input/plugging"
)

// Executor is the platform runtime's side of the command channel. The data
// slice is the full encoded record - the executor is free to mutate it in
// place to carry a response. A negative return value is a failure;
// interpretation of non-negative values is command-specific.
//
// Executors must return promptly. A command is a synchronous round-trip in
// the middle of an update tick and a slow executor stalls the tick. No
// timeout is enforced at this layer: commands are intended as fast local
// driver calls.
type Executor interface {
	ExecuteCommand(id plugging.DeviceID, data []byte) int64
}

// Channel carries commands from devices to a platform runtime.
type Channel struct {
	exec Executor
}

// NewChannel is the preferred method of initialisation for the Channel
// type.
func NewChannel(exec Executor) *Channel {
	return &Channel{exec: exec}
}

// Execute encodes the command, hands it to the platform runtime and, when
// the runtime reports success, decodes the response back into the command.
//
// A negative status is not a Go error. Transport failure is an expected
// outcome that callers decide how to handle - the error return is reserved
// for misuse of the channel itself and for malformed responses.
func (ch *Channel) Execute(id plugging.DeviceID, c Command) (int64, error) {
	if ch == nil || ch.exec == nil {
		return StatusFailure, curated.Errorf("command: channel has no executor")
	}

	d := Encode(c)
	status := ch.exec.ExecuteCommand(id, d)
	if status < 0 {
		return status, nil
	}

	if err := c.decodeResponse(d); err != nil {
		return StatusFailure, curated.Errorf("command: %v", err)
	}

	return status, nil
}
