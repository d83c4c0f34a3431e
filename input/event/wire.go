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

package event

import (
	"encoding/binary"
	"math"

	"github.com/tregarth/switchboard/curated"
	"github.com/tregarth/switchboard/input/fourcc"
	"github.com/tregarth/switchboard/input/plugging"
)

// wire layout: a fixed header followed by the payload. all fields
// little-endian except the tag, which is written in its natural big-endian
// character order so it reads correctly in a hex dump.
//
//	4 bytes   tag (STAT or DELT)
//	4 bytes   total record size in bytes
//	4 bytes   device id
//	8 bytes   timestamp (float64 seconds)
//	4 bytes   state offset (DELT records only)
//	n bytes   payload
const (
	statHeaderSize  = 20
	deltaHeaderSize = 24
)

func (ev State) headerSize() int {
	if ev.Type == Delta {
		return deltaHeaderSize
	}
	return statHeaderSize
}

// WireSize returns the number of bytes Encode() will produce for the event.
func (ev State) WireSize() int {
	return ev.headerSize() + len(ev.Payload)
}

// Encode serialises the event for transport to a remote peer. Local event
// delivery never encodes: the in-memory State is handed over directly.
func (ev State) Encode() ([]byte, error) {
	if !ev.IsStateEvent() {
		return nil, curated.Errorf("event: cannot encode record of type %s", ev.Type)
	}

	d := make([]byte, ev.WireSize())
	binary.BigEndian.PutUint32(d[0:], uint32(ev.Type))
	binary.LittleEndian.PutUint32(d[4:], uint32(ev.WireSize()))
	binary.LittleEndian.PutUint32(d[8:], uint32(ev.Device))
	binary.LittleEndian.PutUint64(d[12:], math.Float64bits(ev.Time))

	if ev.Type == Delta {
		binary.LittleEndian.PutUint32(d[20:], ev.Offset)
	}

	copy(d[ev.headerSize():], ev.Payload)

	return d, nil
}

// Decode reconstructs an event from its wire form.
func Decode(d []byte) (State, error) {
	if len(d) < statHeaderSize {
		return State{}, curated.Errorf("event: record truncated (%d bytes)", len(d))
	}

	ev := State{
		Type:   fourcc.FourCC(binary.BigEndian.Uint32(d[0:])),
		Device: plugging.DeviceID(binary.LittleEndian.Uint32(d[8:])),
		Time:   math.Float64frombits(binary.LittleEndian.Uint64(d[12:])),
	}

	if !ev.IsStateEvent() {
		return State{}, curated.Errorf("event: unrecognised record tag %s", ev.Type)
	}

	size := int(binary.LittleEndian.Uint32(d[4:]))
	if size != len(d) {
		return State{}, curated.Errorf("event: record size field (%d) disagrees with record length (%d)", size, len(d))
	}
	if ev.Type == Delta {
		if len(d) < deltaHeaderSize {
			return State{}, curated.Errorf("event: record truncated (%d bytes)", len(d))
		}
		ev.Offset = binary.LittleEndian.Uint32(d[20:])
	}

	ev.Payload = make([]byte, len(d)-ev.headerSize())
	copy(ev.Payload, d[ev.headerSize():])

	return ev, nil
}
