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

// Package fourcc implements the four-character codes that tag every binary
// record passing between the input system and the platform layer: state
// formats, state events and device commands.
//
// A four-character code packs four ASCII characters into a uint32. Codes
// shorter than four characters are padded with spaces, which is invisible in
// the string form but significant on the wire.
package fourcc

// FourCC is a four-character code packed into a uint32. The first character
// occupies the most significant byte.
type FourCC uint32

// New packs a string of up to four ASCII characters into a FourCC. Strings
// shorter than four characters are padded with trailing spaces. Characters
// beyond the fourth are ignored.
func New(s string) FourCC {
	var c [4]byte
	copy(c[:], s)
	for i := len(s); i < 4; i++ {
		c[i] = ' '
	}
	return FourCC(uint32(c[0])<<24 | uint32(c[1])<<16 | uint32(c[2])<<8 | uint32(c[3]))
}

func (c FourCC) String() string {
	return string([]byte{
		byte(c >> 24),
		byte(c >> 16),
		byte(c >> 8),
		byte(c),
	})
}
