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

// Package command implements the request/response protocol between devices
// and the platform runtime. It is the IOCTL of the input system: a command
// is a fixed-layout binary record tagged with a four-character code and
// declaring its own total size. The platform runtime receives the raw
// bytes, acts on them, and may write a response back into the same buffer
// before returning a signed status.
//
// The channel is a transport, not a protocol enforcer. Beyond size and type
// tagging it performs no validation: unknown and malformed commands are the
// platform side's to reject, which it signals with a negative status.
package command

import (
	"encoding/binary"

	"github.com/tregarth/switchboard/input/fourcc"
)

// Status values returned by command execution. Values of zero or above are
// success, with command-specific meanings (a byte count, for example).
const (
	StatusSuccess      = int64(0)
	StatusFailure      = int64(-1)
	StatusNotSupported = int64(-2)
)

// HeaderSize is the size of the common command header: the four-character
// type code followed by the total record size as a little-endian uint32.
const HeaderSize = 8

// Command is implemented by every command variant. The variants form a
// closed set: the platform runtime dispatches on the type code and has no
// way of interpreting records it has never heard of.
type Command interface {
	// the four-character code identifying the variant
	Type() fourcc.FourCC

	// total record size in bytes, header included. fixed per variant
	Size() int

	// write the request fields into the record after the header
	encodePayload(d []byte)

	// read the response fields from the record after execution. only
	// called when the status indicates success
	decodeResponse(d []byte) error
}

// Encode builds the full wire record for a command: header followed by the
// request payload. The tag is written in natural character order so it
// reads correctly in a hex dump; everything else is little-endian.
func Encode(c Command) []byte {
	d := make([]byte, c.Size())
	binary.BigEndian.PutUint32(d[0:], uint32(c.Type()))
	binary.LittleEndian.PutUint32(d[4:], uint32(c.Size()))
	c.encodePayload(d)
	return d
}
