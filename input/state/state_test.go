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

package state_test

import (
	"testing"

	"github.com/tregarth/switchboard/input/state"
	"github.com/tregarth/switchboard/test"
)

func TestBlockFitsIn(t *testing.T) {
	b := state.Block{ByteOffset: 2, BitOffset: 0, SizeInBits: 8, Format: state.Byte}
	test.ExpectSuccess(t, b.FitsIn(3))
	test.ExpectFailure(t, b.FitsIn(2))

	// a single bit in the last byte of the region
	b = state.Block{ByteOffset: 2, BitOffset: 7, SizeInBits: 1, Format: state.Bit}
	test.ExpectSuccess(t, b.FitsIn(3))

	// the same bit pushed over the boundary
	b = state.Block{ByteOffset: 2, BitOffset: 7, SizeInBits: 2, Format: state.Bit}
	test.ExpectFailure(t, b.FitsIn(3))

	// bit offsets of 8 or more are never valid
	b = state.Block{ByteOffset: 0, BitOffset: 8, SizeInBits: 1, Format: state.Bit}
	test.ExpectFailure(t, b.FitsIn(3))

	// as are zero-width blocks
	b = state.Block{ByteOffset: 0, BitOffset: 0, SizeInBits: 0, Format: state.Bit}
	test.ExpectFailure(t, b.FitsIn(3))
}

func TestReadWriteAligned(t *testing.T) {
	region := make([]byte, 8)

	b := state.Block{ByteOffset: 1, SizeInBits: 8, Format: state.Byte}
	test.ExpectSuccess(t, b.WriteUint(region, 0xa5))

	v, err := b.ReadUint(region)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint32(0xa5))

	// neighbouring bytes are untouched
	test.ExpectEquality(t, region[0], byte(0))
	test.ExpectEquality(t, region[2], byte(0))
}

func TestReadWriteUnaligned(t *testing.T) {
	region := make([]byte, 8)

	// a 10 bit field starting 3 bits into byte 2
	b := state.Block{ByteOffset: 2, BitOffset: 3, SizeInBits: 10, Format: state.UInt}
	test.ExpectSuccess(t, b.WriteUint(region, 0x3ff))

	v, err := b.ReadUint(region)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint32(0x3ff))

	// the field straddles bytes 2 and 3. bits below the field in byte 2 and
	// above it in byte 3 must be clear
	test.ExpectEquality(t, region[2], byte(0xf8))
	test.ExpectEquality(t, region[3], byte(0x1f))

	// writing a value wider than the field truncates it
	test.ExpectSuccess(t, b.WriteUint(region, 0x7ff))
	v, err = b.ReadUint(region)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint32(0x3ff))

	// writing zero clears only the field
	region[1] = 0xff
	test.ExpectSuccess(t, b.WriteUint(region, 0))
	v, err = b.ReadUint(region)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint32(0))
	test.ExpectEquality(t, region[1], byte(0xff))
}

func TestSignExtension(t *testing.T) {
	region := make([]byte, 4)

	b := state.Block{ByteOffset: 0, BitOffset: 2, SizeInBits: 5, Format: state.SBit}
	test.ExpectSuccess(t, b.WriteInt(region, -1))

	v, err := b.ReadInt(region)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, int32(-1))

	test.ExpectSuccess(t, b.WriteInt(region, -16))
	v, err = b.ReadInt(region)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, int32(-16))

	test.ExpectSuccess(t, b.WriteInt(region, 15))
	v, err = b.ReadInt(region)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, int32(15))
}

func TestFloat(t *testing.T) {
	region := make([]byte, 8)

	b := state.Block{ByteOffset: 4, SizeInBits: 32, Format: state.Float}
	test.ExpectSuccess(t, b.WriteFloat(region, 0.5))

	v, err := b.ReadFloat(region)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, float32(0.5))

	// float reads of non-float blocks fail
	i := state.Block{ByteOffset: 0, SizeInBits: 32, Format: state.Int}
	_, err = i.ReadFloat(region)
	test.ExpectFailure(t, err)
}

func TestVector2(t *testing.T) {
	region := make([]byte, 8)

	b := state.Block{ByteOffset: 0, SizeInBits: 64, Format: state.Vector2}
	test.ExpectSuccess(t, b.WriteVector2(region, 0.25, -1.0))

	x, y, err := b.ReadVector2(region)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, x, float32(0.25))
	test.ExpectEquality(t, y, float32(-1.0))
}

func TestFloatValue(t *testing.T) {
	region := make([]byte, 8)

	// integer formats decode numerically
	b := state.Block{ByteOffset: 0, SizeInBits: 16, Format: state.Short}
	test.ExpectSuccess(t, b.WriteInt(region, -512))
	v, err := b.FloatValue(region)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, float32(-512))

	// bit format decodes to zero or one
	b = state.Block{ByteOffset: 2, BitOffset: 5, SizeInBits: 1, Format: state.Bit}
	test.ExpectSuccess(t, b.WriteBool(region, true))
	v, err = b.FloatValue(region)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, float32(1))

	// vector2 has no scalar float value
	b = state.Block{ByteOffset: 0, SizeInBits: 64, Format: state.Vector2}
	_, err = b.FloatValue(region)
	test.ExpectFailure(t, err)
}

func TestOutOfRange(t *testing.T) {
	region := make([]byte, 4)

	b := state.Block{ByteOffset: 4, SizeInBits: 8, Format: state.Byte}
	_, err := b.ReadUint(region)
	test.ExpectFailure(t, err)

	// a failed write mutates nothing
	test.ExpectFailure(t, b.WriteUint(region, 0xff))
	for i := range region {
		test.ExpectEquality(t, region[i], byte(0), "region byte", i)
	}
}

func TestSetBits(t *testing.T) {
	region := make([]byte, 4)

	// a field straddling three bytes: 3 bits into byte 0, 18 bits long
	b := state.Block{ByteOffset: 0, BitOffset: 3, SizeInBits: 18, Format: state.UInt}
	test.ExpectSuccess(t, b.SetBits(region, true))

	test.ExpectEquality(t, region[0], byte(0xf8))
	test.ExpectEquality(t, region[1], byte(0xff))
	test.ExpectEquality(t, region[2], byte(0x1f))
	test.ExpectEquality(t, region[3], byte(0x00))

	// clearing the field leaves surrounding bits alone
	region[0] = 0xff
	region[2] = 0xff
	test.ExpectSuccess(t, b.SetBits(region, false))
	test.ExpectEquality(t, region[0], byte(0x07))
	test.ExpectEquality(t, region[1], byte(0x00))
	test.ExpectEquality(t, region[2], byte(0xe0))
}

func TestAnyMaskedBits(t *testing.T) {
	payload := make([]byte, 12)
	mask := make([]byte, 12)

	// nothing set anywhere
	test.ExpectFailure(t, state.AnyMaskedBits(payload, mask))

	// payload bits in a masked-out area do not count
	payload[3] = 0xff
	test.ExpectFailure(t, state.AnyMaskedBits(payload, mask))

	// a single overlapping bit does
	mask[3] = 0x10
	test.ExpectSuccess(t, state.AnyMaskedBits(payload, mask))

	// check the tail loop beyond the eight byte stride
	payload[3] = 0x00
	mask[3] = 0x00
	payload[11] = 0x01
	mask[11] = 0x01
	test.ExpectSuccess(t, state.AnyMaskedBits(payload, mask))

	// mismatched lengths never match
	test.ExpectFailure(t, state.AnyMaskedBits(payload, mask[:8]))
}
