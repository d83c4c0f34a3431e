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

import "encoding/binary"

// SetBits sets or clears exactly the bits of the block within the region.
// Bits outside the block are untouched. Used to maintain the significance
// mask: a set bit means the corresponding state bit counts towards change
// detection.
func (b Block) SetBits(region []byte, v bool) error {
	if err := b.validate(region); err != nil {
		return err
	}

	first := b.FirstBit()
	end := b.EndBit()

	// leading partial byte
	for first < end && first%8 != 0 {
		setBit(region, first, v)
		first++
	}

	// trailing partial byte
	for end > first && end%8 != 0 {
		end--
		setBit(region, end, v)
	}

	// whole bytes
	var fill byte
	if v {
		fill = 0xff
	}
	for i := first / 8; i < end/8; i++ {
		region[i] = fill
	}

	return nil
}

func setBit(region []byte, bit uint32, v bool) {
	if v {
		region[bit/8] |= 1 << (bit % 8)
	} else {
		region[bit/8] &^= 1 << (bit % 8)
	}
}

// AnyMaskedBits returns true if any bit that is set in the mask is also set
// in the payload. The two slices must be the same length. This is the fast
// path of significance checking and works eight bytes at a stride.
func AnyMaskedBits(payload []byte, mask []byte) bool {
	if len(payload) != len(mask) {
		return false
	}

	i := 0
	for ; i+8 <= len(payload); i += 8 {
		if binary.LittleEndian.Uint64(payload[i:])&binary.LittleEndian.Uint64(mask[i:]) != 0 {
			return true
		}
	}
	for ; i < len(payload); i++ {
		if payload[i]&mask[i] != 0 {
			return true
		}
	}

	return false
}
