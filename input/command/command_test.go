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

package command_test

import (
	"encoding/binary"
	"testing"

	"github.com/tregarth/switchboard/input/command"
	"github.com/tregarth/switchboard/input/fourcc"
	"github.com/tregarth/switchboard/input/plugging"
	"github.com/tregarth/switchboard/test"
)

// mockRuntime implements command.Executor the way a platform runtime would:
// dispatch on the type code, reject everything unknown.
type mockRuntime struct {
	executed []fourcc.FourCC

	enabled bool
	userID  string

	// record of the last rumble request
	low, high uint16
}

func (m *mockRuntime) ExecuteCommand(id plugging.DeviceID, data []byte) int64 {
	tag := fourcc.FourCC(binary.BigEndian.Uint32(data))
	size := binary.LittleEndian.Uint32(data[4:])
	if int(size) != len(data) {
		return command.StatusFailure
	}

	m.executed = append(m.executed, tag)

	switch tag {
	case command.SyncType:
		return command.StatusSuccess

	case command.EnabledStateType:
		if m.enabled {
			data[command.HeaderSize] = 1
		} else {
			data[command.HeaderSize] = 0
		}
		return command.StatusSuccess

	case command.UserIDType:
		binary.LittleEndian.PutUint32(data[command.HeaderSize:], uint32(len(m.userID)))
		copy(data[command.HeaderSize+4:], m.userID)
		return int64(len(m.userID))

	case command.RumbleType:
		m.low = binary.LittleEndian.Uint16(data[command.HeaderSize:])
		m.high = binary.LittleEndian.Uint16(data[command.HeaderSize+2:])
		return command.StatusSuccess
	}

	return command.StatusNotSupported
}

func TestSync(t *testing.T) {
	m := &mockRuntime{}
	ch := command.NewChannel(m)

	status, err := ch.Execute(1, &command.Sync{})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, status, command.StatusSuccess)
	test.DemandEquality(t, len(m.executed), 1)
	test.ExpectEquality(t, m.executed[0].String(), "SYNC")
}

func TestQueryEnabledState(t *testing.T) {
	m := &mockRuntime{enabled: true}
	ch := command.NewChannel(m)

	q := &command.QueryEnabledState{}
	status, err := ch.Execute(1, q)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, status, command.StatusSuccess)
	test.ExpectSuccess(t, q.Enabled)

	m.enabled = false
	status, err = ch.Execute(1, q)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, status, command.StatusSuccess)
	test.ExpectFailure(t, q.Enabled)
}

func TestQueryUserID(t *testing.T) {
	m := &mockRuntime{userID: "player one"}
	ch := command.NewChannel(m)

	q := &command.QueryUserID{}
	status, err := ch.Execute(1, q)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, status, int64(len("player one")))
	test.ExpectEquality(t, q.ID, "player one")
}

func TestRumble(t *testing.T) {
	m := &mockRuntime{}
	ch := command.NewChannel(m)

	status, err := ch.Execute(1, &command.Rumble{Low: 0x1234, High: 0xfedc})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, status, command.StatusSuccess)
	test.ExpectEquality(t, m.low, uint16(0x1234))
	test.ExpectEquality(t, m.high, uint16(0xfedc))
}

func TestUnsupportedCommand(t *testing.T) {
	m := &mockRuntime{}
	ch := command.NewChannel(m)

	// the mock runtime does not support the light colour command. the
	// status is negative, there is no Go error, and because the status is
	// negative the command's response fields are left alone
	c := &command.LightColor{R: 1, G: 2, B: 3}
	status, err := ch.Execute(1, c)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, status, command.StatusNotSupported)
}

func TestChannelWithoutExecutor(t *testing.T) {
	ch := command.NewChannel(nil)
	status, err := ch.Execute(1, &command.Sync{})
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, status, command.StatusFailure)
}
