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

package platform_test

import (
	"encoding/binary"
	"testing"

	"github.com/tregarth/switchboard/input"
	"github.com/tregarth/switchboard/input/buffers"
	"github.com/tregarth/switchboard/input/command"
	"github.com/tregarth/switchboard/input/control"
	"github.com/tregarth/switchboard/input/event"
	"github.com/tregarth/switchboard/input/fourcc"
	"github.com/tregarth/switchboard/input/plugging"
	"github.com/tregarth/switchboard/platform"
	"github.com/tregarth/switchboard/test"
)

// mockRuntime connects one two-button, two-axis gamepad on the first
// poll and replays a scripted state each tick.
type mockRuntime struct {
	id        plugging.DeviceID
	connected bool
	unplug    bool
	closed    bool

	controls []*control.Control
	size     int

	// the state pushed on the next poll
	buttons [2]bool
	axisX   float32
	axisY   float32

	rumbleLow  uint16
	rumbleHigh uint16
}

func (m *mockRuntime) Poll(host platform.Host) error {
	if !m.connected && !m.unplug {
		m.controls, m.size = platform.GamepadLayout(2, 2, 0.1, 0.9)
		id, err := host.Connect(platform.DeviceSpec{
			Description: plugging.Description{
				InterfaceName: "Mock",
				DeviceClass:   "Gamepad",
				Product:       "Scripted Pad",
			},
			Controls:  m.controls,
			StateSize: m.size,
		})
		if err != nil {
			return err
		}
		m.id = id
		m.connected = true
	}

	if m.connected && m.unplug {
		m.connected = false
		return host.Disconnect(m.id)
	}

	if m.connected {
		p := make([]byte, m.size)
		for i, pressed := range m.buttons {
			_ = m.controls[i].Block.WriteBool(p, pressed)
		}
		_ = m.controls[2].Block.WriteFloat(p, m.axisX)
		_ = m.controls[3].Block.WriteFloat(p, m.axisY)
		host.PushEvent(event.NewStat(m.id, 0, p))
	}

	return nil
}

func (m *mockRuntime) ExecuteCommand(_ plugging.DeviceID, data []byte) int64 {
	switch fourcc.FourCC(binary.BigEndian.Uint32(data)) {
	case command.RumbleType:
		m.rumbleLow = binary.LittleEndian.Uint16(data[command.HeaderSize:])
		m.rumbleHigh = binary.LittleEndian.Uint16(data[command.HeaderSize+2:])
		return command.StatusSuccess
	case command.EnabledStateType:
		data[command.HeaderSize] = 1
		return command.StatusSuccess
	}
	return command.StatusNotSupported
}

func (m *mockRuntime) Close() error {
	m.closed = true
	return nil
}

func TestSession(t *testing.T) {
	sys := input.NewSystem()
	rt := &mockRuntime{}
	sess := platform.NewSession(sys, rt)

	// first tick connects the pad. nothing is pressed so the event is
	// filtered as noise, the state is current but not an update
	test.DemandSuccess(t, sess.Tick(0.0))
	test.DemandEquality(t, sys.NumDevices(), 1)

	dev := sys.Device(rt.id)
	test.DemandSuccess(t, dev.Live())
	test.ExpectFailure(t, dev.WasUpdatedThisFrame(buffers.Dynamic))

	// press a button
	rt.buttons[0] = true
	test.DemandSuccess(t, sess.Tick(0.016))
	test.ExpectSuccess(t, dev.WasUpdatedThisFrame(buffers.Dynamic))

	cur, err := dev.CurrentState(buffers.Dynamic)
	test.DemandSuccess(t, err)
	pressed, err := dev.Controls()[0].Block.ReadBool(cur)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, pressed)

	// release the button. stick drift inside the dead zone is not an
	// update
	rt.buttons[0] = false
	rt.axisX = 0.05
	test.DemandSuccess(t, sess.Tick(0.032))
	test.ExpectFailure(t, dev.WasUpdatedThisFrame(buffers.Dynamic))

	// a real stick movement is
	rt.axisX = 0.8
	test.DemandSuccess(t, sess.Tick(0.048))
	test.ExpectSuccess(t, dev.WasUpdatedThisFrame(buffers.Dynamic))

	// devices talk to the runtime through the session's channel
	status, err := dev.Rumble(100, 200)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, status, command.StatusSuccess)
	test.ExpectEquality(t, rt.rumbleLow, uint16(100))
	test.ExpectEquality(t, rt.rumbleHigh, uint16(200))

	// unplugging removes the device from the system
	rt.unplug = true
	test.DemandSuccess(t, sess.Tick(0.064))
	test.ExpectEquality(t, sys.NumDevices(), 0)
	test.ExpectFailure(t, dev.Live())

	test.DemandSuccess(t, sess.Close())
	test.ExpectSuccess(t, rt.closed)
}

func TestGamepadLayout(t *testing.T) {
	// ten buttons, six axes: the standard pad shape
	controls, size := platform.GamepadLayout(10, 6, 0.1, 0.9)

	// 2 bytes of buttons, 6 axes of 4 bytes
	test.ExpectEquality(t, size, 26)

	// buttons + axes + the stick vector2
	test.DemandEquality(t, len(controls), 17)

	// button 9 lands in the second byte
	test.ExpectEquality(t, controls[9].Block.ByteOffset, uint32(1))
	test.ExpectEquality(t, controls[9].Block.BitOffset, uint32(1))

	// the stick aliases axes 0 and 1
	stick := controls[16]
	test.ExpectEquality(t, stick.Kind, control.Vector2)
	test.ExpectEquality(t, stick.Block.ByteOffset, controls[10].Block.ByteOffset)
	test.ExpectSuccess(t, stick.HasReducingChain())

	// the paired axes are noisy, the triggers are dead-zoned instead
	test.ExpectSuccess(t, controls[10].Noisy)
	test.ExpectSuccess(t, controls[11].Noisy)
	test.ExpectFailure(t, controls[12].Noisy)
	test.ExpectSuccess(t, controls[12].HasReducingChain())

	// a button-only device still has a byte of state
	_, size = platform.GamepadLayout(0, 0, 0.1, 0.9)
	test.ExpectEquality(t, size, 1)
}
