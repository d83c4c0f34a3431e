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

// Package buffers implements the state arena: the storage for the raw state
// of every device in the system.
//
// For each update phase the arena holds a front and a back buffer. The
// front buffer of a phase is the state being written during that phase's
// current tick and the back buffer is the state as it was at the end of the
// previous tick. Swap() exchanges the two - a pure pointer exchange, no
// copying - and advances the phase's tick counter.
//
// The arena also owns the significance mask: a single buffer, the same size
// as the state buffers, in which a set bit means the corresponding state
// bit counts towards change detection. The noise filter maintains the mask,
// the arena only stores it.
//
// Devices do not hold pointers into the arena. They hold their DeviceID and
// ask for their region when they need it, because a region's offset is only
// stable until the next Free() or buffer growth.
//
// The arena is explicitly constructed and passed by handle. It is owned by
// the input System and lives exactly as long as it.
package buffers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tregarth/switchboard/curated"
	"github.com/tregarth/switchboard/input/plugging"
	"github.com/tregarth/switchboard/logger"
)

// error patterns that callers may want to discriminate with curated.Is().
const (
	NoRegion = "arena: no region for device %d"
)

type region struct {
	offset int
	size   int
}

// Arena is the process-wide backing store for device state. See the package
// documentation for an overview.
type Arena struct {
	front [NumPhases][]byte
	back  [NumPhases][]byte

	// the significance mask. shared by all phases
	mask []byte

	capacity int

	// bump allocation high water mark. free regions below the high water
	// mark are listed in free
	high int

	regions map[plugging.DeviceID]region

	// freed regions ordered by offset. adjacent entries are always
	// coalesced
	free []region

	ticks [NumPhases]uint64
}

// NewArena is the preferred method of initialisation for the Arena type.
// The capacity argument is a starting size only: the arena grows as
// required.
func NewArena(capacity int) *Arena {
	if capacity <= 0 {
		capacity = 1024
	}

	a := &Arena{
		capacity: capacity,
		regions:  make(map[plugging.DeviceID]region),
	}

	for p := Phase(0); p < NumPhases; p++ {
		a.front[p] = make([]byte, capacity)
		a.back[p] = make([]byte, capacity)
	}
	a.mask = make([]byte, capacity)

	return a
}

func (a *Arena) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("arena: %d bytes, %d devices", a.capacity, len(a.regions)))
	if len(a.free) > 0 {
		f := 0
		for _, r := range a.free {
			f += r.size
		}
		s.WriteString(fmt.Sprintf(", %d bytes on free list", f))
	}
	return s.String()
}

// Allocate reserves a region of the given size, in every buffer, for the
// device. The returned offset is valid until the next Free() or buffer
// growth. The region is zeroed and its significance mask is set to all
// ones.
func (a *Arena) Allocate(id plugging.DeviceID, size int) (int, error) {
	if id == plugging.InvalidDeviceID {
		return 0, curated.Errorf("arena: allocation for invalid device id")
	}
	if size <= 0 {
		return 0, curated.Errorf("arena: allocation of %d bytes", size)
	}
	if _, ok := a.regions[id]; ok {
		return 0, curated.Errorf("arena: device %d already has a region", id)
	}

	offset, ok := a.reuse(size)
	if !ok {
		if a.high+size > a.capacity {
			a.grow(a.high + size)
		}
		offset = a.high
		a.high += size
	}

	a.regions[id] = region{offset: offset, size: size}
	a.reset(region{offset: offset, size: size})

	return offset, nil
}

// reuse takes the first free-list entry large enough for the request,
// returning any remainder to the list.
func (a *Arena) reuse(size int) (int, bool) {
	for i, r := range a.free {
		if r.size >= size {
			a.free = append(a.free[:i], a.free[i+1:]...)
			if r.size > size {
				a.release(region{offset: r.offset + size, size: r.size - size})
			}
			return r.offset, true
		}
	}
	return 0, false
}

// reset zeroes a region in every state buffer and sets its mask bytes to
// all ones.
func (a *Arena) reset(r region) {
	for p := Phase(0); p < NumPhases; p++ {
		clear(a.front[p][r.offset : r.offset+r.size])
		clear(a.back[p][r.offset : r.offset+r.size])
	}
	for i := r.offset; i < r.offset+r.size; i++ {
		a.mask[i] = 0xff
	}
}

// Free returns the device's region to the free list. Subsequent allocations
// may reuse the range, so offsets are not stable across a remove and
// re-add of a device.
func (a *Arena) Free(id plugging.DeviceID) error {
	r, ok := a.regions[id]
	if !ok {
		return curated.Errorf(NoRegion, id)
	}

	delete(a.regions, id)
	a.release(r)

	return nil
}

// release inserts a region into the free list, coalescing with neighbours
// and retreating the high water mark when the freed range abuts it.
func (a *Arena) release(r region) {
	i := sort.Search(len(a.free), func(i int) bool {
		return a.free[i].offset > r.offset
	})
	a.free = append(a.free, region{})
	copy(a.free[i+1:], a.free[i:])
	a.free[i] = r

	// coalesce with the entry after
	if i+1 < len(a.free) && a.free[i].offset+a.free[i].size == a.free[i+1].offset {
		a.free[i].size += a.free[i+1].size
		a.free = append(a.free[:i+1], a.free[i+2:]...)
	}

	// coalesce with the entry before
	if i > 0 && a.free[i-1].offset+a.free[i-1].size == a.free[i].offset {
		a.free[i-1].size += a.free[i].size
		a.free = append(a.free[:i], a.free[i+1:]...)
	}

	// retreat the high water mark over a trailing free region
	if len(a.free) > 0 {
		last := a.free[len(a.free)-1]
		if last.offset+last.size == a.high {
			a.high = last.offset
			a.free = a.free[:len(a.free)-1]
		}
	}
}

// grow reallocates every buffer with at least the required capacity,
// repacking live regions in offset order. Region contents, including mask
// bits, are preserved but offsets are recomputed.
func (a *Arena) grow(required int) {
	capacity := a.capacity * 2
	for capacity < required {
		capacity *= 2
	}

	// live regions in current offset order
	ids := make([]plugging.DeviceID, 0, len(a.regions))
	for id := range a.regions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return a.regions[ids[i]].offset < a.regions[ids[j]].offset
	})

	var front, back [NumPhases][]byte
	for p := Phase(0); p < NumPhases; p++ {
		front[p] = make([]byte, capacity)
		back[p] = make([]byte, capacity)
	}
	mask := make([]byte, capacity)

	offset := 0
	for _, id := range ids {
		r := a.regions[id]
		for p := Phase(0); p < NumPhases; p++ {
			copy(front[p][offset:], a.front[p][r.offset:r.offset+r.size])
			copy(back[p][offset:], a.back[p][r.offset:r.offset+r.size])
		}
		copy(mask[offset:], a.mask[r.offset:r.offset+r.size])
		a.regions[id] = region{offset: offset, size: r.size}
		offset += r.size
	}

	logger.Logf("arena", "grown from %d to %d bytes (%d devices repacked)", a.capacity, capacity, len(ids))

	a.front = front
	a.back = back
	a.mask = mask
	a.capacity = capacity
	a.high = offset
	a.free = a.free[:0]
}

// Swap exchanges the front and back buffers of a phase and advances the
// phase's tick counter. It must be called exactly once per phase per update
// tick, at the phase boundary. The exchange is pure: no state is copied.
func (a *Arena) Swap(p Phase) {
	a.front[p], a.back[p] = a.back[p], a.front[p]
	a.ticks[p]++
}

// Ticks returns the number of times the phase has been swapped.
func (a *Arena) Ticks(p Phase) uint64 {
	return a.ticks[p]
}

// Offset returns the device's current offset into the arena. The offset is
// only stable until the next Free() or buffer growth.
func (a *Arena) Offset(id plugging.DeviceID) (int, error) {
	r, ok := a.regions[id]
	if !ok {
		return 0, curated.Errorf(NoRegion, id)
	}
	return r.offset, nil
}

// Size returns the size of the device's region.
func (a *Arena) Size(id plugging.DeviceID) (int, error) {
	r, ok := a.regions[id]
	if !ok {
		return 0, curated.Errorf(NoRegion, id)
	}
	return r.size, nil
}

// Current returns the device's region of the phase's front buffer: the
// state being accumulated during the phase's current tick.
func (a *Arena) Current(id plugging.DeviceID, p Phase) ([]byte, error) {
	r, ok := a.regions[id]
	if !ok {
		return nil, curated.Errorf(NoRegion, id)
	}
	return a.front[p][r.offset : r.offset+r.size], nil
}

// Previous returns the device's region of the phase's back buffer: the
// state as it was at the end of the phase's previous tick.
func (a *Arena) Previous(id plugging.DeviceID, p Phase) ([]byte, error) {
	r, ok := a.regions[id]
	if !ok {
		return nil, curated.Errorf(NoRegion, id)
	}
	return a.back[p][r.offset : r.offset+r.size], nil
}

// Mask returns the device's region of the significance mask buffer.
func (a *Arena) Mask(id plugging.DeviceID) ([]byte, error) {
	r, ok := a.regions[id]
	if !ok {
		return nil, curated.Errorf(NoRegion, id)
	}
	return a.mask[r.offset : r.offset+r.size], nil
}
