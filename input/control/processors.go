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

package control

// Processor is a pure value transformation applied to a control's raw value
// on every read. Processors must not retain state between calls.
type Processor interface {
	Apply(v float32) float32

	// Reduces returns true if the processor can map distinct inputs to the
	// same output. Dead zones and quantisers do, inversion and scaling do
	// not. The noise filter uses this to decide which controls need
	// per-event value checks
	Reduces() bool
}

// DeadZone clamps values whose magnitude is below Min to zero and rescales
// the remaining range so the output still spans 0 to Max smoothly.
type DeadZone struct {
	Min float32
	Max float32
}

func (p DeadZone) Apply(v float32) float32 {
	m := v
	if m < 0 {
		m = -m
	}
	if m <= p.Min {
		return 0
	}
	if m >= p.Max {
		m = p.Max
	}

	// rescale so values just outside the dead zone start near zero rather
	// than jumping to Min
	r := (m - p.Min) / (p.Max - p.Min) * p.Max
	if v < 0 {
		return -r
	}
	return r
}

func (p DeadZone) Reduces() bool {
	return true
}

// Invert negates the value. Useful for axes that arrive from the platform
// upside down.
type Invert struct{}

func (p Invert) Apply(v float32) float32 {
	return -v
}

func (p Invert) Reduces() bool {
	return false
}

// Normalize maps the range Min to Max onto 0.0 to 1.0. Values outside the
// range are clamped.
type Normalize struct {
	Min float32
	Max float32
}

func (p Normalize) Apply(v float32) float32 {
	if p.Max == p.Min {
		return 0
	}
	v = (v - p.Min) / (p.Max - p.Min)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (p Normalize) Reduces() bool {
	// clamping collapses every out-of-range value
	return true
}

// Scale multiplies the value by Factor.
type Scale struct {
	Factor float32
}

func (p Scale) Apply(v float32) float32 {
	return v * p.Factor
}

func (p Scale) Reduces() bool {
	return false
}
