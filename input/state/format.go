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

package state

import "github.com/tregarth/switchboard/input/fourcc"

// Format describes the numeric encoding of a state block.
type Format fourcc.FourCC

// List of supported state formats.
var (
	Bit     = Format(fourcc.New("BIT"))
	SBit    = Format(fourcc.New("SBIT"))
	Byte    = Format(fourcc.New("BYTE"))
	SByte   = Format(fourcc.New("SBYT"))
	Short   = Format(fourcc.New("SHRT"))
	UShort  = Format(fourcc.New("USHT"))
	Int     = Format(fourcc.New("INT"))
	UInt    = Format(fourcc.New("UINT"))
	Float   = Format(fourcc.New("FLT"))
	Vector2 = Format(fourcc.New("VEC2"))
)

func (f Format) String() string {
	return fourcc.FourCC(f).String()
}

// SizeInBits returns the natural width of the format. Formats Bit and SBit
// return 1 although blocks of those formats may specify any width up to 32
// bits.
func (f Format) SizeInBits() uint32 {
	switch f {
	case Bit, SBit:
		return 1
	case Byte, SByte:
		return 8
	case Short, UShort:
		return 16
	case Int, UInt, Float:
		return 32
	case Vector2:
		return 64
	}
	return 0
}

// Signed returns true for formats whose values are interpreted as two's
// complement.
func (f Format) Signed() bool {
	switch f {
	case SBit, SByte, Short, Int:
		return true
	}
	return false
}
