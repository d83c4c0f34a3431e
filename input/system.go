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

// Package input is the hub of the device state engine. The System type
// owns the state arena and the table of live devices, assigns device ids,
// queues incoming state events and routes them to devices at the update
// tick.
//
// The System is single-threaded by contract. Everything that mutates
// state - adding and removing devices, pushing events, the Update() tick
// itself - must happen on the one goroutine that drives the engine.
// Readers of control values may run between ticks but never during one.
// No locks protect any of this. Removal of a device is likewise only safe
// between ticks.
package input

import (
	"github.com/tregarth/switchboard/curated"
	"github.com/tregarth/switchboard/input/buffers"
	"github.com/tregarth/switchboard/input/device"
	"github.com/tregarth/switchboard/input/event"
	"github.com/tregarth/switchboard/input/noise"
	"github.com/tregarth/switchboard/input/plugging"
	"github.com/tregarth/switchboard/logger"
)

// error patterns for the System type. tested with curated.Is()
const (
	UnknownDevice = "input: no device with id %d"
)

// System owns the device table and the state arena.
type System struct {
	arena *buffers.Arena

	// index slots. a removed device leaves a nil slot behind which a
	// later device may reuse. slot indices are reusable, device ids are
	// not
	devices []*device.Device
	byID    map[plugging.DeviceID]*device.Device

	// the next id to be assigned. monotonic, never reused, never
	// plugging.InvalidDeviceID
	nextID plugging.DeviceID

	monitors []plugging.PlugMonitor

	// events pushed since the last tick, in arrival order
	queue []event.State

	// the engine clock as of the most recent SetClock(). informational
	clock float64

	// the noise threshold given to every device's filter
	epsilon float32
}

// NewSystem is the preferred method of initialisation for the System
// type.
func NewSystem() *System {
	return &System{
		arena:   buffers.NewArena(0),
		byID:    make(map[plugging.DeviceID]*device.Device),
		nextID:  1,
		epsilon: noise.DefaultEpsilon,
	}
}

// SetEpsilon changes the noise threshold for every live device and for
// devices added later.
func (s *System) SetEpsilon(epsilon float32) {
	s.epsilon = epsilon
	for _, d := range s.byID {
		if f := d.Filter(); f != nil {
			f.SetEpsilon(epsilon)
		}
	}
}

// Arena returns the system's state arena. Offsets into the arena are not
// stable across device removal so callers should hold device references,
// not offsets.
func (s *System) Arena() *buffers.Arena {
	return s.arena
}

// AttachPlugMonitor implements the plugging.Monitorable interface.
func (s *System) AttachPlugMonitor(m plugging.PlugMonitor) {
	s.monitors = append(s.monitors, m)
}

// AddDevice takes a detached device, allocates its region of the arena,
// attaches it under a fresh id and notifies every attached monitor. A
// device with noise-filterable controls gets a filter built and applied
// as part of the attachment.
func (s *System) AddDevice(dev *device.Device) error {
	if dev == nil {
		return curated.Errorf("input: add of nil device")
	}
	if dev.Live() {
		return curated.Errorf("input: %s: already added", dev.String())
	}

	id := s.nextID
	if _, err := s.arena.Allocate(id, dev.StateSize()); err != nil {
		return curated.Errorf("input: %v", err)
	}

	index := -1
	for i := range s.devices {
		if s.devices[i] == nil {
			index = i
			break
		}
	}
	appended := false
	if index == -1 {
		index = len(s.devices)
		s.devices = append(s.devices, nil)
		appended = true
	}

	if err := dev.Attach(id, index, s.arena); err != nil {
		_ = s.arena.Free(id)
		if appended {
			s.devices = s.devices[:index]
		}
		return err
	}

	// the id is burned even if a later step fails
	s.nextID++

	s.devices[index] = dev
	s.byID[id] = dev

	f := noise.Build(dev, s.arena)
	f.SetEpsilon(s.epsilon)
	if f.NumElements() > 0 {
		if err := f.Apply(dev); err != nil {
			return curated.Errorf("input: %v", err)
		}
		dev.SetFilter(f)
	}

	logger.Logf("input", "added %s (%s)", dev.String(), dev.Description().String())

	for _, m := range s.monitors {
		m.DeviceAdded(dev)
	}

	return nil
}

// RemoveDevice detaches a device, releases its region of the arena and
// notifies every attached monitor. The device reference remains usable
// for identification but the device is no longer live. Only safe between
// update ticks.
func (s *System) RemoveDevice(id plugging.DeviceID) error {
	dev, ok := s.byID[id]
	if !ok {
		return curated.Errorf(UnknownDevice, id)
	}

	s.devices[dev.Index()] = nil
	delete(s.byID, id)

	dev.Detach()
	if err := s.arena.Free(id); err != nil {
		return curated.Errorf("input: %v", err)
	}

	logger.Logf("input", "removed %s", dev.String())

	for _, m := range s.monitors {
		m.DeviceRemoved(dev)
	}

	return nil
}

// Device returns the live device with the given id, or nil.
func (s *System) Device(id plugging.DeviceID) *device.Device {
	return s.byID[id]
}

// Devices returns the live devices in index order.
func (s *System) Devices() []*device.Device {
	devs := make([]*device.Device, 0, len(s.byID))
	for _, d := range s.devices {
		if d != nil {
			devs = append(devs, d)
		}
	}
	return devs
}

// NumDevices is the number of live devices.
func (s *System) NumDevices() int {
	return len(s.byID)
}

// ConfigurationChanged marks the device's cached configuration stale and
// notifies every attached monitor. Re-querying is deferred until a
// consumer next reads a configuration-dependent property.
func (s *System) ConfigurationChanged(id plugging.DeviceID) error {
	dev, ok := s.byID[id]
	if !ok {
		return curated.Errorf(UnknownDevice, id)
	}

	dev.ConfigurationChanged()

	for _, m := range s.monitors {
		m.DeviceConfigurationChanged(dev)
	}

	return nil
}

// PushEvent queues a state event for the next update tick. Platform
// runtimes call this from their Poll() implementations.
func (s *System) PushEvent(ev event.State) {
	s.queue = append(s.queue, ev)
}

// Update runs one tick of the given phase: the arena's buffers for the
// phase are swapped and the queued events are routed to their devices.
//
// During the BeforeRender phase only devices carrying the
// UpdateBeforeRender flag receive events. Events for other devices stay
// queued for the next Dynamic tick.
//
// Malformed events and events for unknown devices are logged and
// dropped. They cannot corrupt device state but they do indicate a
// misbehaving platform backend.
func (s *System) Update(p buffers.Phase) error {
	if !p.Valid() {
		return curated.Errorf("input: update of invalid phase (%d)", p)
	}

	s.arena.Swap(p)

	retained := s.queue[:0]
	for _, ev := range s.queue {
		dev, ok := s.byID[ev.Device]
		if !ok {
			logger.Logf("input", "dropped event for unknown device %d", ev.Device)
			continue
		}

		if p == buffers.BeforeRender && dev.Flags()&device.UpdateBeforeRender != device.UpdateBeforeRender {
			retained = append(retained, ev)
			continue
		}

		if _, err := dev.ProcessEvent(ev, p); err != nil {
			logger.Logf("input", "dropped event: %v", err)
		}
	}
	s.queue = retained

	return nil
}

// SetClock tells the system the engine's current time. The system does
// not require a clock, events carry their own timestamps, but monitors
// may want one for display.
func (s *System) SetClock(time float64) {
	s.clock = time
}

// Clock is the engine time as of the most recent SetClock().
func (s *System) Clock() float64 {
	return s.clock
}
