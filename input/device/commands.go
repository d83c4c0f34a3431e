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

package device

import (
	"github.com/tregarth/switchboard/curated"
	"github.com/tregarth/switchboard/input/command"
)

// Execute sends a command to the platform through the device's channel.
// The status is the platform's signed answer: negative means the platform
// refused or does not support the command, which is an expected outcome
// and not an error. An error means the command never reached the
// platform.
func (d *Device) Execute(c command.Command) (int64, error) {
	if !d.Live() {
		return command.StatusFailure, curated.Errorf(NotLive, d.String())
	}
	return d.channel.Execute(d.id, c)
}

// Sync asks the device to emit a fresh full-state event. The new state
// arrives through the normal event path rather than in the response.
func (d *Device) Sync() (int64, error) {
	return d.Execute(&command.Sync{})
}

// UserID asks the platform for the identifier of the user account the
// device is associated with. Empty on a negative status.
func (d *Device) UserID() (string, int64, error) {
	cmd := command.QueryUserID{}
	status, err := d.Execute(&cmd)
	return cmd.ID, status, err
}

// Rumble sets the speeds of the device's rumble motors. Zero for both
// stops all rumbling.
func (d *Device) Rumble(low uint16, high uint16) (int64, error) {
	return d.Execute(&command.Rumble{Low: low, High: high})
}

// SetLightColor sets the colour of the device's light bar or LED.
func (d *Device) SetLightColor(r byte, g byte, b byte) (int64, error) {
	return d.Execute(&command.LightColor{R: r, G: g, B: b})
}
