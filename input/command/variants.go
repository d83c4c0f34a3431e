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
	"encoding/binary"

	"github.com/tregarth/switchboard/curated"
	"github.com/tregarth/switchboard/input/fourcc"
)

// Command type codes. These are wire constants: a reimplementation of the
// platform side must reproduce them bit-exactly.
var (
	SyncType         = fourcc.New("SYNC")
	EnabledStateType = fourcc.New("QENB")
	UserIDType       = fourcc.New("USER")
	RumbleType       = fourcc.New("RMBL")
	LightColorType   = fourcc.New("LEDC")
)

// Sync asks the device to emit its full current state as a Stat event. No
// payload and no response: the state arrives through the normal event path.
type Sync struct{}

func (c *Sync) Type() fourcc.FourCC { return SyncType }
func (c *Sync) Size() int           { return HeaderSize }

func (c *Sync) encodePayload(d []byte)        {}
func (c *Sync) decodeResponse(d []byte) error { return nil }

// QueryEnabledState asks the platform whether the device is currently able
// to generate input. The response is a single byte after the header.
type QueryEnabledState struct {
	// response
	Enabled bool
}

func (c *QueryEnabledState) Type() fourcc.FourCC { return EnabledStateType }
func (c *QueryEnabledState) Size() int           { return HeaderSize + 1 }

func (c *QueryEnabledState) encodePayload(d []byte) {}

func (c *QueryEnabledState) decodeResponse(d []byte) error {
	c.Enabled = d[HeaderSize] != 0
	return nil
}

// maximum length of a user identifier in the UserID response payload.
const maxUserIDLength = 256

// QueryUserID asks the platform for the identifier of the user account the
// device is associated with. The response is a little-endian uint32 length
// followed by that many bytes of UTF-8.
type QueryUserID struct {
	// response
	ID string
}

func (c *QueryUserID) Type() fourcc.FourCC { return UserIDType }
func (c *QueryUserID) Size() int           { return HeaderSize + 4 + maxUserIDLength }

func (c *QueryUserID) encodePayload(d []byte) {}

func (c *QueryUserID) decodeResponse(d []byte) error {
	l := binary.LittleEndian.Uint32(d[HeaderSize:])
	if int(l) > maxUserIDLength {
		return curated.Errorf("command: user id length (%d) exceeds record capacity", l)
	}
	c.ID = string(d[HeaderSize+4 : HeaderSize+4+int(l)])
	return nil
}

// Rumble sets the speeds of the device's two rumble motors. Zero for both
// speeds stops all rumbling. Fire-and-forget: there is no response, but a
// runtime that cannot rumble will still answer with a negative status.
type Rumble struct {
	Low  uint16
	High uint16
}

func (c *Rumble) Type() fourcc.FourCC { return RumbleType }
func (c *Rumble) Size() int           { return HeaderSize + 4 }

func (c *Rumble) encodePayload(d []byte) {
	binary.LittleEndian.PutUint16(d[HeaderSize:], c.Low)
	binary.LittleEndian.PutUint16(d[HeaderSize+2:], c.High)
}

func (c *Rumble) decodeResponse(d []byte) error { return nil }

// LightColor sets the colour of the device's light bar or LED. Three bytes
// of RGB after the header.
type LightColor struct {
	R byte
	G byte
	B byte
}

func (c *LightColor) Type() fourcc.FourCC { return LightColorType }
func (c *LightColor) Size() int           { return HeaderSize + 3 }

func (c *LightColor) encodePayload(d []byte) {
	d[HeaderSize] = c.R
	d[HeaderSize+1] = c.G
	d[HeaderSize+2] = c.B
}

func (c *LightColor) decodeResponse(d []byte) error { return nil }
