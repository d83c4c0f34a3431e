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

// Package control represents the individual controls of a device: buttons,
// axes and two-dimensional sticks. A control does not store a value of its
// own. It is an accessor - a state block plus a processing chain - over
// whichever byte region the caller hands it, allowing the same control to
// read current, previous or incoming event state without copying.
package control

import (
	"fmt"

	"github.com/tregarth/switchboard/input/state"
)

// Kind classifies the value shape of a control.
type Kind int

// List of control kinds.
const (
	Button Kind = iota
	Axis
	Vector2
)

func (k Kind) String() string {
	switch k {
	case Button:
		return "button"
	case Axis:
		return "axis"
	case Vector2:
		return "vector2"
	}
	return "unknown"
}

// Control is a single named accessor over a slice of its device's raw
// state. Controls are owned exclusively by their device and are never
// shared.
type Control struct {
	Name string

	// position in the owning device's flattened control array
	Index int

	Kind  Kind
	Block state.Block

	// noisy controls never represent user intent on their own. sensors
	// mostly
	Noisy bool

	// the default (resting) value of the control, after processing.
	// comparison against the default is how sub-epsilon drift is detected
	DefaultValue float32
	DefaultX     float32
	DefaultY     float32

	processors []Processor
}

func (c *Control) String() string {
	return fmt.Sprintf("%s [%s %v]", c.Name, c.Kind, c.Block)
}

// AddProcessor appends a processor to the control's processing chain.
// Processors run in the order they were added.
func (c *Control) AddProcessor(p Processor) {
	c.processors = append(c.processors, p)
}

// HasReducingChain returns true if any processor in the chain can collapse
// distinct raw values into the same processed value. Such controls need
// per-event value checks during noise filtering: their bits may change
// without their meaning changing.
func (c *Control) HasReducingChain() bool {
	for _, p := range c.processors {
		if p.Reduces() {
			return true
		}
	}
	return false
}

// process runs a single component through the processing chain.
func (c *Control) process(v float32) float32 {
	for _, p := range c.processors {
		v = p.Apply(v)
	}
	return v
}

// RawValue reads the control's unprocessed value from the region.
func (c *Control) RawValue(region []byte) (float32, error) {
	return c.Block.FloatValue(region)
}

// Value reads the control's value from the region and runs it through the
// processing chain. Not valid for Vector2 controls: use ValueXY.
func (c *Control) Value(region []byte) (float32, error) {
	v, err := c.Block.FloatValue(region)
	if err != nil {
		return 0, err
	}
	return c.process(v), nil
}

// ValueXY reads both components of a Vector2 control, each run through the
// processing chain.
func (c *Control) ValueXY(region []byte) (float32, float32, error) {
	x, y, err := c.Block.ReadVector2(region)
	if err != nil {
		return 0, 0, err
	}
	return c.process(x), c.process(y), nil
}
