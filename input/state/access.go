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
	"math"

	"github.com/tregarth/switchboard/curated"
)

// maximum width of a scalar field. wider blocks are only accessed through
// the compound read functions (ReadVector2)
const maxScalarBits = 32

// gather returns the raw bits of the block as an unsigned value. the bytes
// covering the bit span are assembled little-endian before the field is
// shifted and masked out.
func (b Block) gather(region []byte) uint32 {
	first := b.ByteOffset
	last := (b.FirstBit() + b.SizeInBits + 7) / 8

	var v uint64
	shift := 0
	for i := first; i < last; i++ {
		v |= uint64(region[i]) << shift
		shift += 8
	}

	v >>= b.BitOffset
	v &= (uint64(1) << b.SizeInBits) - 1

	return uint32(v)
}

// scatter writes the low SizeInBits bits of v into the block, leaving all
// surrounding bits untouched.
func (b Block) scatter(region []byte, v uint32) {
	first := b.ByteOffset
	last := (b.FirstBit() + b.SizeInBits + 7) / 8

	var cur uint64
	shift := 0
	for i := first; i < last; i++ {
		cur |= uint64(region[i]) << shift
		shift += 8
	}

	mask := ((uint64(1) << b.SizeInBits) - 1) << b.BitOffset
	cur = (cur &^ mask) | ((uint64(v) << b.BitOffset) & mask)

	shift = 0
	for i := first; i < last; i++ {
		region[i] = byte(cur >> shift)
		shift += 8
	}
}

// ReadUint returns the value of the block interpreted as an unsigned
// integer. The block must be no wider than 32 bits.
func (b Block) ReadUint(region []byte) (uint32, error) {
	if err := b.validate(region); err != nil {
		return 0, err
	}
	if b.SizeInBits > maxScalarBits {
		return 0, curated.Errorf("state: block %v too wide for a scalar read", b)
	}
	return b.gather(region), nil
}

// ReadInt returns the value of the block sign-extended from its declared
// width.
func (b Block) ReadInt(region []byte) (int32, error) {
	v, err := b.ReadUint(region)
	if err != nil {
		return 0, err
	}

	// sign-extend from the block width
	sign := uint32(1) << (b.SizeInBits - 1)
	if v&sign != 0 {
		v |= ^(sign - 1)
	}

	return int32(v), nil
}

// ReadBool returns true if any bit of the block is set.
func (b Block) ReadBool(region []byte) (bool, error) {
	v, err := b.ReadUint(region)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// ReadFloat returns the value of the block interpreted as an IEEE 754
// single-precision float. The block must be of Float format: integer
// formats are decoded with FloatValue().
func (b Block) ReadFloat(region []byte) (float32, error) {
	if b.Format != Float {
		return 0, curated.Errorf("state: block %v is not of float format", b)
	}
	v, err := b.ReadUint(region)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadVector2 returns the two components of a Vector2 block. The block must
// be of Vector2 format and byte-aligned: two packed floats have no sensible
// sub-byte layout.
func (b Block) ReadVector2(region []byte) (float32, float32, error) {
	if b.Format != Vector2 || b.SizeInBits != 64 || b.BitOffset != 0 {
		return 0, 0, curated.Errorf("state: block %v is not of vector2 format", b)
	}
	if err := b.validate(region); err != nil {
		return 0, 0, err
	}

	x := Block{ByteOffset: b.ByteOffset, SizeInBits: 32, Format: Float}
	y := Block{ByteOffset: b.ByteOffset + 4, SizeInBits: 32, Format: Float}

	xv, err := x.ReadFloat(region)
	if err != nil {
		return 0, 0, err
	}
	yv, err := y.ReadFloat(region)
	if err != nil {
		return 0, 0, err
	}

	return xv, yv, nil
}

// FloatValue decodes the block to a float32 whatever its format. Integer
// formats are converted numerically, not normalised - scaling raw values
// into a conventional range is the job of a control's processor chain.
func (b Block) FloatValue(region []byte) (float32, error) {
	switch b.Format {
	case Float:
		return b.ReadFloat(region)
	case Bit, Byte, UShort, UInt:
		v, err := b.ReadUint(region)
		return float32(v), err
	case SBit, SByte, Short, Int:
		v, err := b.ReadInt(region)
		return float32(v), err
	}
	return 0, curated.Errorf("state: block %v cannot be decoded to a float", b)
}

// WriteUint writes the low SizeInBits bits of v into the block.
func (b Block) WriteUint(region []byte, v uint32) error {
	if err := b.validate(region); err != nil {
		return err
	}
	if b.SizeInBits > maxScalarBits {
		return curated.Errorf("state: block %v too wide for a scalar write", b)
	}
	b.scatter(region, v)
	return nil
}

// WriteInt writes a signed value into the block.
func (b Block) WriteInt(region []byte, v int32) error {
	return b.WriteUint(region, uint32(v))
}

// WriteBool writes 1 or 0 into every bit of the block.
func (b Block) WriteBool(region []byte, v bool) error {
	var u uint32
	if v {
		u = (uint32(1) << b.SizeInBits) - 1
		if b.SizeInBits >= maxScalarBits {
			u = ^uint32(0)
		}
	}
	return b.WriteUint(region, u)
}

// WriteFloat writes an IEEE 754 single-precision float into the block.
func (b Block) WriteFloat(region []byte, v float32) error {
	if b.Format != Float {
		return curated.Errorf("state: block %v is not of float format", b)
	}
	return b.WriteUint(region, math.Float32bits(v))
}

// WriteVector2 writes both components of a Vector2 block.
func (b Block) WriteVector2(region []byte, x float32, y float32) error {
	if b.Format != Vector2 || b.SizeInBits != 64 || b.BitOffset != 0 {
		return curated.Errorf("state: block %v is not of vector2 format", b)
	}
	if err := b.validate(region); err != nil {
		return err
	}

	xb := Block{ByteOffset: b.ByteOffset, SizeInBits: 32, Format: Float}
	yb := Block{ByteOffset: b.ByteOffset + 4, SizeInBits: 32, Format: Float}

	if err := xb.WriteFloat(region, x); err != nil {
		return err
	}
	return yb.WriteFloat(region, y)
}
