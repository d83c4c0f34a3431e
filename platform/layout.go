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

package platform

import (
	"fmt"

	"github.com/tregarth/switchboard/input/control"
	"github.com/tregarth/switchboard/input/state"
)

// GamepadLayout builds the generic control layout used by backends for
// joystick-class devices.
//
// Buttons are packed as single bits at the start of the state, eight to
// a byte. Axes follow at the next byte boundary as 32-bit floats. When
// the device has at least two axes the first pair is exposed as a
// "stick" vector2 aliasing the same bytes, with a dead zone so that
// resting drift decodes to zero; the paired axes themselves are marked
// noisy and the stick decides significance for them. Remaining axes
// (triggers, usually) carry their own dead zone and are filtered by
// magnitude individually.
//
// Returns the flattened control slice in index order and the state size
// in bytes.
func GamepadLayout(numButtons int, numAxes int, deadZoneMin float32, deadZoneMax float32) ([]*control.Control, int) {
	controls := make([]*control.Control, 0, numButtons+numAxes+1)
	index := 0

	for i := 0; i < numButtons; i++ {
		controls = append(controls, &control.Control{
			Name:  fmt.Sprintf("button%d", i),
			Index: index,
			Kind:  control.Button,
			Block: state.Block{
				ByteOffset: uint32(i / 8),
				BitOffset:  uint32(i % 8),
				SizeInBits: 1,
				Format:     state.Bit,
			},
		})
		index++
	}

	axesOffset := uint32((numButtons + 7) / 8)

	pairStick := numAxes >= 2

	for i := 0; i < numAxes; i++ {
		axis := &control.Control{
			Name:  fmt.Sprintf("axis%d", i),
			Index: index,
			Kind:  control.Axis,
			Block: state.Block{
				ByteOffset: axesOffset + uint32(i*4),
				SizeInBits: 32,
				Format:     state.Float,
			},
		}
		if pairStick && i < 2 {
			axis.Noisy = true
		} else {
			axis.AddProcessor(control.DeadZone{Min: deadZoneMin, Max: deadZoneMax})
		}
		controls = append(controls, axis)
		index++
	}

	if numAxes >= 2 {
		stick := &control.Control{
			Name:  "stick",
			Index: index,
			Kind:  control.Vector2,
			Block: state.Block{
				ByteOffset: axesOffset,
				SizeInBits: 64,
				Format:     state.Vector2,
			},
		}
		stick.AddProcessor(control.DeadZone{Min: deadZoneMin, Max: deadZoneMax})
		controls = append(controls, stick)
		index++
	}

	size := int(axesOffset) + numAxes*4
	if size == 0 {
		size = 1
	}

	return controls, size
}
