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

// Package device aggregates everything the runtime knows about a single
// input device: its description, its flattened control tree, its slice of
// the state arena and the channel it talks to the platform with.
//
// A device moves through three stages. It is constructed detached, with
// no id and no arena region. The system attaches it when it is added,
// giving it an id, an index and an allocated region. When the device is
// removed it is detached again and must no longer be treated as live. The
// device value itself may be retained by callers after removal but every
// operation that needs the platform or the arena will fail.
package device

import (
	"fmt"

	"github.com/tregarth/switchboard/curated"
	"github.com/tregarth/switchboard/input/buffers"
	"github.com/tregarth/switchboard/input/command"
	"github.com/tregarth/switchboard/input/control"
	"github.com/tregarth/switchboard/input/event"
	"github.com/tregarth/switchboard/input/noise"
	"github.com/tregarth/switchboard/input/plugging"
)

// error patterns for the device package. tested with curated.Is()
const (
	NotLive     = "device: %s: not live"
	WrongDevice = "device: event for device %d routed to device %d"
	OutOfRange  = "device: event range [%d,+%d) exceeds state size %d"
	BadEvent    = "device: %v is not a state event"
)

// Flags records the condition of a device as a bitset.
type Flags uint16

// List of valid Flags values.
const (
	// the device is attached to a running system
	Added Flags = 1 << iota

	// the device is backed by local hardware rather than a remote peer
	Native

	// the device state arrives over a remote connection
	Remote

	// the platform reports the device as unable to generate input
	Disabled

	// the device also wants its state refreshed in the BeforeRender phase
	UpdateBeforeRender

	// the Disabled flag reflects a real answer from the platform rather
	// than a default. cleared by ConfigurationChanged()
	DisabledStateCached
)

// Device is a single input device known to the system.
type Device struct {
	desc     plugging.Description
	controls []*control.Control
	size     int

	id    plugging.DeviceID
	index int
	flags Flags

	arena   *buffers.Arena
	channel *command.Channel
	filter  *noise.Filter

	// the arena tick at which this device last received a significant
	// event, per phase
	lastUpdate [buffers.NumPhases]uint64

	// timestamp of the last significant event
	lastUpdateTime float64
}

// New creates a detached Device. The control slice is the flattened
// control tree in index order and size is the byte length of the device's
// state. The channel may be nil for devices that have no platform to talk
// to (tests, virtual devices).
func New(desc plugging.Description, controls []*control.Control, size int, ch *command.Channel) *Device {
	return &Device{
		desc:     desc,
		controls: controls,
		size:     size,
		id:       plugging.InvalidDeviceID,
		index:    plugging.InvalidDeviceIndex,
		channel:  ch,
	}
}

func (d *Device) String() string {
	if d.desc.Product != "" {
		return fmt.Sprintf("%s [%d]", d.desc.Product, d.id)
	}
	return fmt.Sprintf("%s [%d]", d.desc.DeviceClass, d.id)
}

// ID implements the plugging.Device and noise.Device interfaces.
func (d *Device) ID() plugging.DeviceID {
	return d.id
}

// Description implements the plugging.Device interface.
func (d *Device) Description() plugging.Description {
	return d.desc
}

// Controls implements the noise.Device interface.
func (d *Device) Controls() []*control.Control {
	return d.controls
}

// StateSize implements the noise.Device interface.
func (d *Device) StateSize() int {
	return d.size
}

// Index is the device's position in the system's device table. Detached
// devices report plugging.InvalidDeviceIndex.
func (d *Device) Index() int {
	return d.index
}

// Flags returns the device's current condition.
func (d *Device) Flags() Flags {
	return d.flags
}

// SetFlags sets the given flags. Lifecycle flags are managed by Attach()
// and Detach() and should not be set directly.
func (d *Device) SetFlags(f Flags) {
	d.flags |= f
}

// Filter returns the device's noise filter. May be nil.
func (d *Device) Filter() *noise.Filter {
	return d.filter
}

// SetFilter installs a noise filter for the device. A nil filter means
// every event is significant.
func (d *Device) SetFilter(f *noise.Filter) {
	d.filter = f
}

// Live is true between Attach() and Detach().
func (d *Device) Live() bool {
	return d.flags&Added == Added && d.index != plugging.InvalidDeviceIndex
}

// Attach gives the device its identity and its view of the state arena.
// The arena region for id must already have been allocated.
func (d *Device) Attach(id plugging.DeviceID, index int, arena *buffers.Arena) error {
	if d.flags&Added == Added {
		return curated.Errorf("device: %s: already attached", d.String())
	}
	if id == plugging.InvalidDeviceID || index == plugging.InvalidDeviceIndex {
		return curated.Errorf("device: attach with invalid id or index")
	}
	if _, err := arena.Size(id); err != nil {
		return curated.Errorf("device: attach: %v", err)
	}

	d.id = id
	d.index = index
	d.arena = arena
	d.flags |= Added
	for p := range d.lastUpdate {
		d.lastUpdate[p] = 0
	}

	return nil
}

// Detach returns the device to the detached condition. The device keeps
// its id so log lines written after removal still identify it, but it is
// no longer live. Releasing the arena region is the caller's job.
func (d *Device) Detach() {
	d.index = plugging.InvalidDeviceIndex
	d.arena = nil
	d.filter = nil
	d.flags &^= Added | DisabledStateCached
}

// ProcessEvent feeds a state event into the device's current buffer for
// the given phase. The payload is always written, keeping the stored
// state current, but only a significant event counts as an update for
// WasUpdatedThisFrame() purposes. Returns whether the event was
// significant.
func (d *Device) ProcessEvent(ev event.State, p buffers.Phase) (bool, error) {
	if !d.Live() {
		return false, curated.Errorf(NotLive, d.String())
	}
	if !ev.IsStateEvent() {
		return false, curated.Errorf(BadEvent, ev.Type)
	}
	if ev.Device != d.id {
		return false, curated.Errorf(WrongDevice, ev.Device, d.id)
	}

	offset := int(ev.Offset)
	if offset+len(ev.Payload) > d.size {
		return false, curated.Errorf(OutOfRange, offset, len(ev.Payload), d.size)
	}

	sig := true
	if d.filter != nil {
		var err error
		sig, err = d.filter.SignificantChange(d, ev)
		if err != nil {
			return false, err
		}
	}

	cur, err := d.arena.Current(d.id, p)
	if err != nil {
		return false, curated.Errorf("device: %v", err)
	}
	copy(cur[offset:], ev.Payload)

	if sig {
		d.lastUpdate[p] = d.arena.Ticks(p)
		d.lastUpdateTime = ev.Time
	}

	return sig, nil
}

// WasUpdatedThisFrame is true if the device received a significant event
// during the current tick of the given phase.
func (d *Device) WasUpdatedThisFrame(p buffers.Phase) bool {
	if !d.Live() || !p.Valid() {
		return false
	}
	t := d.arena.Ticks(p)
	return t != 0 && d.lastUpdate[p] == t
}

// LastUpdateTime is the timestamp of the most recent significant event,
// in the engine's clock domain. Zero if the device has never been
// updated.
func (d *Device) LastUpdateTime() float64 {
	return d.lastUpdateTime
}

// CurrentState returns the device's slice of the current buffer for the
// given phase. Control values are read through this.
func (d *Device) CurrentState(p buffers.Phase) ([]byte, error) {
	if !d.Live() {
		return nil, curated.Errorf(NotLive, d.String())
	}
	return d.arena.Current(d.id, p)
}

// PreviousState returns the device's slice of the previous buffer for the
// given phase.
func (d *Device) PreviousState(p buffers.Phase) ([]byte, error) {
	if !d.Live() {
		return nil, curated.Errorf(NotLive, d.String())
	}
	return d.arena.Previous(d.id, p)
}

// Enabled reports whether the platform considers the device able to
// generate input. The answer is fetched through the command channel on
// first use and cached until ConfigurationChanged() is called. A device
// with no channel, or a platform that fails the query, is presumed
// enabled.
func (d *Device) Enabled() bool {
	if !d.Live() {
		return false
	}

	if d.flags&DisabledStateCached != DisabledStateCached && d.channel != nil {
		cmd := command.QueryEnabledState{}
		status, err := d.channel.Execute(d.id, &cmd)
		if err == nil && status >= 0 {
			if cmd.Enabled {
				d.flags &^= Disabled
			} else {
				d.flags |= Disabled
			}
			d.flags |= DisabledStateCached
		}
	}

	return d.flags&Disabled != Disabled
}

// ConfigurationChanged marks every lazily cached property stale. The next
// read of a configuration-dependent property asks the platform again.
func (d *Device) ConfigurationChanged() {
	d.flags &^= DisabledStateCached
}
