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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. It takes a
// formatting pattern and placeholder values, and returns an error.
//
// The Is() function can be used to check whether an error was created by
// Errorf() with a specific pattern. The pattern string is what
// differentiates curated errors. For example:
//
//	e := curated.Errorf("arena: no region for device %d", id)
//
//	if curated.Is(e, "arena: no region for device %d") {
//		fmt.Println("true")
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain. Wrapping one curated error in another is done by passing
// the inner error as a placeholder value:
//
//	e2 := curated.Errorf("device: %v", e)
//
// Packages that expect callers to discriminate between failures export their
// patterns as constants.
package curated
