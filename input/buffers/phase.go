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

package buffers

// Phase is a distinct update pass of the host application. Each phase has
// its own pair of state buffers and its own tick counter.
type Phase int

// List of update phases.
//
// Dynamic is the simulation step and is the phase most events arrive in.
// BeforeRender runs between simulation and rendering for devices that want
// the freshest possible state (head trackers most notably). Editor is only
// ticked when the host runs inside an editor environment.
const (
	Dynamic Phase = iota
	BeforeRender
	Editor
	NumPhases
)

func (p Phase) String() string {
	switch p {
	case Dynamic:
		return "dynamic"
	case BeforeRender:
		return "before-render"
	case Editor:
		return "editor"
	}
	return "unknown"
}

// Valid returns true if p is one of the defined phases.
func (p Phase) Valid() bool {
	return p >= Dynamic && p < NumPhases
}
