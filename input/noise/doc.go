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

// Package noise decides whether an incoming state event represents real
// user intent. Two things are considered noise: controls that never
// represent intent at all (sensors, mostly - the Noisy flag on a control),
// and changes on meaningful controls that are too small to survive the
// control's processing chain (drift inside a dead zone).
//
// The filter leans on the significance mask owned by the state arena. At
// apply-time the bits of every filtered control are cleared from the mask;
// at event-time a single masked sweep over the payload answers the common
// case without decoding a single control. Only when the sweep finds
// nothing does the filter fall back to decoding the handful of controls
// whose meaning can differ from their bits.
//
// A device with no filter, or a filter with no elements, considers every
// event significant. That is a normal configuration, not an error.
package noise
