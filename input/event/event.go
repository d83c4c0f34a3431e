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

// Package event defines the state events that carry device state from the
// platform layer into the input system.
//
// A Stat event carries a device's entire state blob. A Delta event carries
// a fragment of it, along with the byte offset at which the fragment
// applies. The input system's only contract on either is: validate the tag,
// validate the byte range against the device's declared size, and feed the
// payload into the right buffer region.
package event

import (
	"fmt"

	"github.com/tregarth/switchboard/input/fourcc"
	"github.com/tregarth/switchboard/input/plugging"
)

// The two state event tags.
var (
	Stat  = fourcc.New("STAT")
	Delta = fourcc.New("DELT")
)

// State is a state or delta-state event. The Offset field is meaningful
// only when Type is Delta.
type State struct {
	Type   fourcc.FourCC
	Device plugging.DeviceID

	// time the event was generated, on the host application's clock
	// (seconds)
	Time float64

	// byte offset into the device's state at which the payload applies.
	// always zero for Stat events
	Offset uint32

	Payload []byte
}

func (ev State) String() string {
	return fmt.Sprintf("%s: device %d, %d bytes at offset %d", ev.Type, ev.Device, len(ev.Payload), ev.Offset)
}

// IsStateEvent returns true if the event carries one of the two state event
// tags.
func (ev State) IsStateEvent() bool {
	return ev.Type == Stat || ev.Type == Delta
}

// NewStat creates a full-state event.
func NewStat(device plugging.DeviceID, time float64, payload []byte) State {
	return State{
		Type:    Stat,
		Device:  device,
		Time:    time,
		Payload: payload,
	}
}

// NewDelta creates a delta-state event applying at the given byte offset
// into the device's state.
func NewDelta(device plugging.DeviceID, time float64, offset uint32, payload []byte) State {
	return State{
		Type:    Delta,
		Device:  device,
		Time:    time,
		Offset:  offset,
		Payload: payload,
	}
}
