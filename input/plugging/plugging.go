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

// Package plugging conceptualises the act of plugging devices into the input
// system. It is a leaf package containing the identifiers, descriptions and
// notification interfaces shared by every other input package.
package plugging

import (
	"fmt"
	"strings"
)

// DeviceID uniquely identifies a device for the duration of the process.
// IDs are assigned once, when the device is added to the system, and are
// never reused, even after the device has been removed.
type DeviceID uint32

// InvalidDeviceID is the sentinel value held by a device that has not yet
// been added to the system.
const InvalidDeviceID = DeviceID(0)

// InvalidDeviceIndex is the value held by the device index field when the
// device is not present in the live device table.
const InvalidDeviceIndex = -1

// Description identifies a device to the input system. It is supplied by
// the platform layer when the device is first seen and is immutable
// thereafter.
type Description struct {
	// name of the platform interface the device arrived through. for
	// example: "SDL", "Evdev"
	InterfaceName string

	// broad class of device. for example: "Gamepad", "Sensor"
	DeviceClass string

	Product      string
	Manufacturer string

	// platform-specific capability information. the input system never
	// parses this, it is carried for the benefit of platform layout
	// builders
	Capabilities []byte
}

func (d Description) String() string {
	s := strings.Builder{}
	s.WriteString(d.InterfaceName)
	if d.DeviceClass != "" {
		s.WriteString(fmt.Sprintf("/%s", d.DeviceClass))
	}
	if d.Product != "" {
		s.WriteString(fmt.Sprintf(" (%s)", d.Product))
	}
	return s.String()
}

// Device is the narrow view of a device presented to PlugMonitor
// implementations. The concrete type is always *device.Device but the
// interface keeps this package free of dependencies.
type Device interface {
	ID() DeviceID
	Description() Description
	String() string
}

// PlugMonitor implementations are notified of changes to the population and
// configuration of devices.
//
// Notifications are synchronous and arrive on the same goroutine that
// mutated the device table. Monitor implementations must not call back into
// the input system from inside a notification.
type PlugMonitor interface {
	// device has been added to the system and is live
	DeviceAdded(Device)

	// device has been removed. the device reference is still usable for
	// identification but the device is no longer live
	DeviceRemoved(Device)

	// the device's configuration has changed in some way. cached
	// configuration-dependent state should be considered stale
	DeviceConfigurationChanged(Device)
}

// Monitorable implementations allow a PlugMonitor to be attached.
type Monitorable interface {
	AttachPlugMonitor(m PlugMonitor)
}
