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

package noise_test

import (
	"testing"

	"github.com/tregarth/switchboard/curated"
	"github.com/tregarth/switchboard/input/buffers"
	"github.com/tregarth/switchboard/input/control"
	"github.com/tregarth/switchboard/input/event"
	"github.com/tregarth/switchboard/input/fourcc"
	"github.com/tregarth/switchboard/input/noise"
	"github.com/tregarth/switchboard/input/plugging"
	"github.com/tregarth/switchboard/input/state"
	"github.com/tregarth/switchboard/test"
)

// mockDevice is the minimum implementation of noise.Device. The real
// implementation is device.Device.
type mockDevice struct {
	id       plugging.DeviceID
	controls []*control.Control
	size     int
}

func (d *mockDevice) ID() plugging.DeviceID        { return d.id }
func (d *mockDevice) Controls() []*control.Control { return d.controls }
func (d *mockDevice) StateSize() int               { return d.size }

// mockDevice state layout:
//
//	byte 0-3    gyro: a noisy float sensor
//	byte 4-11   stick: a vector2 with a dead zone
//	byte 12     fire: a plain button, bit 0
const mockSize = 13

func newMockDevice(id plugging.DeviceID) *mockDevice {
	d := &mockDevice{id: id, size: mockSize}

	gyro := &control.Control{
		Name:  "gyro",
		Index: 0,
		Kind:  control.Axis,
		Block: state.Block{ByteOffset: 0, SizeInBits: 32, Format: state.Float},
		Noisy: true,
	}

	stick := &control.Control{
		Name:  "stick",
		Index: 1,
		Kind:  control.Vector2,
		Block: state.Block{ByteOffset: 4, SizeInBits: 64, Format: state.Vector2},
	}
	stick.AddProcessor(control.DeadZone{Min: 0.1, Max: 1.0})

	fire := &control.Control{
		Name:  "fire",
		Index: 2,
		Kind:  control.Button,
		Block: state.Block{ByteOffset: 12, BitOffset: 0, SizeInBits: 1, Format: state.Bit},
	}

	d.controls = []*control.Control{gyro, stick, fire}
	return d
}

// payload builds a full-state payload for the mock device.
func payload(t *testing.T, gyro float32, x float32, y float32, fire bool) []byte {
	t.Helper()
	p := make([]byte, mockSize)
	test.DemandSuccess(t, state.Block{ByteOffset: 0, SizeInBits: 32, Format: state.Float}.WriteFloat(p, gyro))
	test.DemandSuccess(t, state.Block{ByteOffset: 4, SizeInBits: 64, Format: state.Vector2}.WriteVector2(p, x, y))
	test.DemandSuccess(t, state.Block{ByteOffset: 12, SizeInBits: 1, Format: state.Bit}.WriteBool(p, fire))
	return p
}

func setup(t *testing.T) (*buffers.Arena, *mockDevice, *noise.Filter) {
	t.Helper()

	a := buffers.NewArena(64)
	dev := newMockDevice(1)
	_, err := a.Allocate(dev.id, mockSize)
	test.DemandSuccess(t, err)

	f := noise.Build(dev, a)
	test.DemandEquality(t, f.NumElements(), 2)
	test.DemandSuccess(t, f.Apply(dev))

	return a, dev, f
}

func TestBuildElementOrder(t *testing.T) {
	_, dev, f := setup(t)

	// one EntireControl element for the gyro, one magnitude element for
	// the stick, nothing for the plain button
	_ = dev
	test.ExpectEquality(t, f.NumElements(), 2)
}

func TestNoFilterElements(t *testing.T) {
	a := buffers.NewArena(64)

	// a device with nothing but a plain button builds an empty filter
	dev := &mockDevice{id: 1, size: 1}
	dev.controls = []*control.Control{{
		Name:  "fire",
		Kind:  control.Button,
		Block: state.Block{SizeInBits: 1, Format: state.Bit},
	}}
	_, err := a.Allocate(dev.id, 1)
	test.DemandSuccess(t, err)

	f := noise.Build(dev, a)
	test.ExpectEquality(t, f.NumElements(), 0)

	// an empty filter treats any non-empty event as significant
	sig, err := f.SignificantChange(dev, event.NewStat(dev.id, 0, []byte{0x00}))
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, sig)
}

func TestEventValidation(t *testing.T) {
	_, dev, f := setup(t)

	// not a state event
	_, err := f.SignificantChange(dev, event.State{Type: fourcc.New("SYNC")})
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, noise.NotStateEvent))

	// range beyond the device's declared size
	_, err = f.SignificantChange(dev, event.NewDelta(dev.id, 0, 8, make([]byte, 8)))
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, noise.OutOfRange))
}

func TestUninitialisedMask(t *testing.T) {
	a := buffers.NewArena(64)
	dev := newMockDevice(1)

	// filter built but the device never received an arena region: the
	// mask is absent and significance is unanswerable
	f := noise.Build(dev, a)
	_, err := f.SignificantChange(dev, event.NewStat(dev.id, 0, make([]byte, mockSize)))
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, noise.Uninitialised))
}

func TestNoisyControlFullyMasked(t *testing.T) {
	_, dev, f := setup(t)

	// an event that changes only the noisy sensor is not significant
	sig, err := f.SignificantChange(dev, event.NewStat(dev.id, 0, payload(t, 45.0, 0, 0, false)))
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, sig)
}

func TestPlainControlFastPath(t *testing.T) {
	_, dev, f := setup(t)

	// the button is not covered by any element so its bit survives the
	// mask and triggers the fast path
	sig, err := f.SignificantChange(dev, event.NewStat(dev.id, 0, payload(t, 0, 0, 0, true)))
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, sig)
}

func TestSubEpsilonStick(t *testing.T) {
	_, dev, f := setup(t)

	// stick drift inside the dead zone decodes to a zero magnitude
	sig, err := f.SignificantChange(dev, event.NewStat(dev.id, 0, payload(t, 0, 0.05, 0.02, false)))
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, sig)

	// a full deflection is unmistakable
	sig, err = f.SignificantChange(dev, event.NewStat(dev.id, 0, payload(t, 0, 1.0, 0, false)))
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, sig)
}

func TestCombinedNoise(t *testing.T) {
	_, dev, f := setup(t)

	// sensor noise and stick drift together still do not add up to
	// intent
	sig, err := f.SignificantChange(dev, event.NewStat(dev.id, 0, payload(t, 45.0, 0.05, 0.02, false)))
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, sig)

	// but sensor noise does not drown out a real stick movement either
	sig, err = f.SignificantChange(dev, event.NewStat(dev.id, 0, payload(t, 45.0, 1.0, 0, false)))
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, sig)
}

func TestDeltaEvent(t *testing.T) {
	_, dev, f := setup(t)

	// a delta event covering only the stick's bytes
	p := make([]byte, 8)
	test.DemandSuccess(t, state.Block{ByteOffset: 0, SizeInBits: 64, Format: state.Vector2}.WriteVector2(p, 0.05, 0))

	sig, err := f.SignificantChange(dev, event.NewDelta(dev.id, 0, 4, p))
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, sig)

	test.DemandSuccess(t, state.Block{ByteOffset: 0, SizeInBits: 64, Format: state.Vector2}.WriteVector2(p, 0.8, 0.1))
	sig, err = f.SignificantChange(dev, event.NewDelta(dev.id, 0, 4, p))
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, sig)
}

func TestApplyResetRoundTrip(t *testing.T) {
	a, dev, f := setup(t)

	mask, err := a.Mask(dev.ID())
	test.DemandSuccess(t, err)

	// after apply: gyro and stick bytes masked out, button byte intact
	for i := 0; i < 12; i++ {
		test.ExpectEquality(t, mask[i], byte(0x00), "mask byte", i)
	}
	test.ExpectEquality(t, mask[12], byte(0xff))

	// apply is idempotent
	test.DemandSuccess(t, f.Apply(dev))
	for i := 0; i < 12; i++ {
		test.ExpectEquality(t, mask[i], byte(0x00), "mask byte", i)
	}

	// reset restores every bit of the device's region
	test.DemandSuccess(t, f.Reset(dev))
	for i := range mask {
		test.ExpectEquality(t, mask[i], byte(0xff), "mask byte", i)
	}
}

func TestEpsilonBoundary(t *testing.T) {
	a := buffers.NewArena(64)

	// two controls with clamping chains: Normalize(-1,1) maps a resting
	// raw value of zero to a processed default of 0.5, so a raw value of
	// 1.0 lands a processed change of exactly 0.5
	throttle := &control.Control{
		Name:         "throttle",
		Index:        0,
		Kind:         control.Axis,
		Block:        state.Block{ByteOffset: 0, SizeInBits: 32, Format: state.Float},
		DefaultValue: 0.5,
	}
	throttle.AddProcessor(control.Normalize{Min: -1, Max: 1})

	stick := &control.Control{
		Name:     "stick",
		Index:    1,
		Kind:     control.Vector2,
		Block:    state.Block{ByteOffset: 4, SizeInBits: 64, Format: state.Vector2},
		DefaultX: 0.5,
		DefaultY: 0.5,
	}
	stick.AddProcessor(control.Normalize{Min: -1, Max: 1})

	dev := &mockDevice{id: 1, size: 12, controls: []*control.Control{throttle, stick}}
	_, err := a.Allocate(dev.id, dev.size)
	test.DemandSuccess(t, err)

	f := noise.Build(dev, a)
	test.DemandEquality(t, f.NumElements(), 2)
	test.DemandSuccess(t, f.Apply(dev))
	f.SetEpsilon(0.5)

	pay := func(tv float32, x float32) []byte {
		p := make([]byte, 12)
		test.DemandSuccess(t, state.Block{ByteOffset: 0, SizeInBits: 32, Format: state.Float}.WriteFloat(p, tv))
		test.DemandSuccess(t, state.Block{ByteOffset: 4, SizeInBits: 64, Format: state.Vector2}.WriteVector2(p, x, 0))
		return p
	}

	// a change below the threshold is noise
	sig, err := f.SignificantChange(dev, event.NewStat(dev.id, 0, pay(0.5, 0)))
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, sig)

	// a float change of exactly the threshold is signal
	sig, err = f.SignificantChange(dev, event.NewStat(dev.id, 0, pay(1.0, 0)))
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, sig)

	// a vector magnitude of exactly the threshold is signal
	sig, err = f.SignificantChange(dev, event.NewStat(dev.id, 0, pay(0, 1.0)))
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, sig)
}

func TestEpsilonOverride(t *testing.T) {
	_, dev, f := setup(t)

	// with an absurdly large epsilon even a full stick deflection is
	// noise
	f.SetEpsilon(2.0)
	sig, err := f.SignificantChange(dev, event.NewStat(dev.id, 0, payload(t, 0, 1.0, 0, false)))
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, sig)
}
