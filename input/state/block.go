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

import (
	"fmt"

	"github.com/tregarth/switchboard/curated"
)

// Block addresses a sub-field of a device's raw state blob.
type Block struct {
	// offset of the first byte of the field, relative to the start of the
	// device's state region
	ByteOffset uint32

	// offset of the first bit within the byte at ByteOffset. zero when the
	// field is byte-aligned. always less than 8
	BitOffset uint32

	// width of the field
	SizeInBits uint32

	Format Format
}

func (b Block) String() string {
	if b.BitOffset == 0 {
		return fmt.Sprintf("%s@%d[%dbits]", b.Format, b.ByteOffset, b.SizeInBits)
	}
	return fmt.Sprintf("%s@%d.%d[%dbits]", b.Format, b.ByteOffset, b.BitOffset, b.SizeInBits)
}

// FirstBit returns the absolute position of the block's first bit within the
// device's state region.
func (b Block) FirstBit() uint32 {
	return b.ByteOffset*8 + b.BitOffset
}

// EndBit returns the absolute position of the first bit after the block.
func (b Block) EndBit() uint32 {
	return b.FirstBit() + b.SizeInBits
}

// FitsIn returns true if the block lies entirely within a region of the
// given size.
func (b Block) FitsIn(sizeInBytes int) bool {
	return b.BitOffset < 8 && b.SizeInBits > 0 && b.EndBit() <= uint32(sizeInBytes)*8
}

// validate is called at the boundary of every access function. a block that
// fails validation causes no reads or writes at all.
func (b Block) validate(region []byte) error {
	if !b.FitsIn(len(region)) {
		return curated.Errorf("state: block %v out of range of %d byte region", b, len(region))
	}
	return nil
}
