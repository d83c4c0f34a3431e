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

// Package state describes and accesses the raw state of a device. A device's
// state is a fixed-size blob of bytes and every control on the device is a
// Block: a byte offset, a bit offset, a length in bits and a format,
// addressing a sub-field of that blob.
//
// Blocks are built once, when the device's control tree is put together,
// and are immutable thereafter. All access functions work against a byte
// slice representing the device's region of a state buffer - the package
// knows nothing about where that region lives.
//
// Byte order is little-endian throughout. Bit offsets count from the least
// significant bit of the byte at the block's byte offset, which means a
// multi-bit field never needs a byte-order decision of its own.
package state
