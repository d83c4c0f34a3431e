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

package noise

import (
	"fmt"
	"math"

	"github.com/tregarth/switchboard/curated"
	"github.com/tregarth/switchboard/input/buffers"
	"github.com/tregarth/switchboard/input/control"
	"github.com/tregarth/switchboard/input/event"
	"github.com/tregarth/switchboard/input/plugging"
	"github.com/tregarth/switchboard/input/state"
)

// error patterns that callers may want to discriminate with curated.Is().
const (
	NotStateEvent = "noise: %v is not a state event"
	OutOfRange    = "noise: event range %d+%d exceeds device state size %d"
	Uninitialised = "noise: significance mask not initialised: %v"
)

// DefaultEpsilon is the threshold below which a change in a control's
// processed value is considered noise. The value is a compromise: sensor
// jitter and dead-zone drift sit comfortably below it, while the smallest
// deliberate movement of an analogue stick sits well above. It can be
// overridden per filter at build time.
const DefaultEpsilon = 0.0001

// ElementKind describes how a filter element suppresses noise.
type ElementKind int

// List of element kinds.
//
// EntireControl elements do all their work at apply-time by clearing the
// control's bits from the significance mask; they contribute no per-event
// cost. The two epsilon kinds additionally re-examine the control's decoded
// value on every event that fails the masked sweep.
const (
	EntireControl ElementKind = iota
	FloatBelowEpsilon
	Vector2MagnitudeBelowEpsilon
)

func (k ElementKind) String() string {
	switch k {
	case EntireControl:
		return "entire-control"
	case FloatBelowEpsilon:
		return "float-below-epsilon"
	case Vector2MagnitudeBelowEpsilon:
		return "vector2-magnitude-below-epsilon"
	}
	return "unknown"
}

// Element is a single noise rule covering one control.
type Element struct {
	ControlIndex int
	Kind         ElementKind
}

// Device is the filter's view of the device it was built for. The concrete
// type is always *device.Device.
type Device interface {
	ID() plugging.DeviceID
	Controls() []*control.Control
	StateSize() int
}

// Filter is a per-device set of noise rules. Build once, Apply once, then
// consult SignificantChange for every incoming event.
type Filter struct {
	arena    *buffers.Arena
	elements []Element
	epsilon  float32
}

// Build scans the device's flattened control list, in control index order,
// and emits one element for every control that needs filtering: an
// EntireControl element for every noisy control, an epsilon element for
// every non-noisy control whose processing chain can swallow small
// changes.
func Build(dev Device, arena *buffers.Arena) *Filter {
	f := &Filter{
		arena:   arena,
		epsilon: DefaultEpsilon,
	}

	for _, c := range dev.Controls() {
		if c.Noisy {
			f.elements = append(f.elements, Element{ControlIndex: c.Index, Kind: EntireControl})
			continue
		}
		if c.HasReducingChain() {
			k := FloatBelowEpsilon
			if c.Kind == control.Vector2 {
				k = Vector2MagnitudeBelowEpsilon
			}
			f.elements = append(f.elements, Element{ControlIndex: c.Index, Kind: k})
		}
	}

	return f
}

func (f *Filter) String() string {
	return fmt.Sprintf("noise filter: %d elements", len(f.elements))
}

// NumElements returns the number of rules in the filter.
func (f *Filter) NumElements() int {
	return len(f.elements)
}

// SetEpsilon overrides the filter's change threshold. Must be called
// before the filter sees any events.
func (f *Filter) SetEpsilon(epsilon float32) {
	f.epsilon = epsilon
}

// Apply initialises the device's significance mask: every bit of the
// region is set, then the bits of each filtered control are cleared.
// Re-applying an already applied filter yields the same mask.
func (f *Filter) Apply(dev Device) error {
	mask, err := f.arena.Mask(dev.ID())
	if err != nil {
		return curated.Errorf("noise: %v", err)
	}

	for i := range mask {
		mask[i] = 0xff
	}

	controls := dev.Controls()
	for _, e := range f.elements {
		if e.ControlIndex < 0 || e.ControlIndex >= len(controls) {
			return curated.Errorf("noise: element control index %d out of range", e.ControlIndex)
		}
		if err := controls[e.ControlIndex].Block.SetBits(mask, false); err != nil {
			return curated.Errorf("noise: %v", err)
		}
	}

	return nil
}

// Reset undoes the filter's masking entirely, returning the device's
// region of the significance mask to all ones. Used when the filter is
// removed from a device.
func (f *Filter) Reset(dev Device) error {
	mask, err := f.arena.Mask(dev.ID())
	if err != nil {
		return curated.Errorf("noise: %v", err)
	}

	for i := range mask {
		mask[i] = 0xff
	}

	return nil
}

// SignificantChange reports whether the event carries at least one change
// that represents real user intent.
//
// The fast path is a masked sweep of the payload: any set bit that
// survives the significance mask is proof of intent, with no decoding at
// all. Most events from most devices resolve here. The fall-back decodes
// the value of each epsilon element's control from the payload and
// compares it, post-processing, against the control's resting value.
//
// A filter with no elements reports every event as significant.
func (f *Filter) SignificantChange(dev Device, ev event.State) (bool, error) {
	if !ev.IsStateEvent() {
		return false, curated.Errorf(NotStateEvent, ev.Type)
	}

	offset := int(ev.Offset)
	if offset+len(ev.Payload) > dev.StateSize() {
		return false, curated.Errorf(OutOfRange, offset, len(ev.Payload), dev.StateSize())
	}

	if len(f.elements) == 0 {
		return true, nil
	}

	if f.arena == nil {
		return false, curated.Errorf(Uninitialised, "no arena")
	}
	mask, err := f.arena.Mask(dev.ID())
	if err != nil {
		return false, curated.Errorf(Uninitialised, err)
	}

	if state.AnyMaskedBits(ev.Payload, mask[offset:offset+len(ev.Payload)]) {
		return true, nil
	}

	// nothing outside the filtered controls has changed. decode the
	// epsilon elements to see whether any of the masked changes carry
	// meaning
	controls := dev.Controls()
	for _, e := range f.elements {
		if e.Kind == EntireControl {
			continue
		}

		c := controls[e.ControlIndex]

		// the control must lie entirely within the event's range or
		// there is nothing to decode
		rel, ok := relocate(c.Block, offset, len(ev.Payload))
		if !ok {
			continue
		}

		switch e.Kind {
		case FloatBelowEpsilon:
			v, err := decodeFloat(c, rel, ev.Payload)
			if err != nil {
				return false, err
			}
			if abs(v-c.DefaultValue) >= f.epsilon {
				return true, nil
			}

		case Vector2MagnitudeBelowEpsilon:
			x, y, err := decodeVector2(c, rel, ev.Payload)
			if err != nil {
				return false, err
			}
			dx := float64(x - c.DefaultX)
			dy := float64(y - c.DefaultY)
			if math.Sqrt(dx*dx+dy*dy) >= float64(f.epsilon) {
				return true, nil
			}
		}
	}

	return false, nil
}

// relocate rebases a device-relative block against an event payload
// beginning at offset. Returns false if the block is not entirely covered
// by the payload.
func relocate(b state.Block, offset int, length int) (state.Block, bool) {
	if int(b.ByteOffset) < offset {
		return state.Block{}, false
	}
	b.ByteOffset -= uint32(offset)
	if !b.FitsIn(length) {
		return state.Block{}, false
	}
	return b, true
}

// decodeFloat reads a control's processed value from an event payload via
// a rebased block.
func decodeFloat(c *control.Control, rel state.Block, payload []byte) (float32, error) {
	shadow := *c
	shadow.Block = rel
	return shadow.Value(payload)
}

// decodeVector2 reads both processed components of a vector2 control from
// an event payload via a rebased block.
func decodeVector2(c *control.Control, rel state.Block, payload []byte) (float32, float32, error) {
	shadow := *c
	shadow.Block = rel
	return shadow.ValueXY(payload)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
