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

package fourcc_test

import (
	"testing"

	"github.com/tregarth/switchboard/input/fourcc"
	"github.com/tregarth/switchboard/test"
)

func TestFourCC(t *testing.T) {
	test.ExpectEquality(t, fourcc.New("STAT").String(), "STAT")
	test.ExpectEquality(t, fourcc.New("STAT"), fourcc.FourCC(0x53544154))

	// short codes are padded with spaces
	test.ExpectEquality(t, fourcc.New("BIT").String(), "BIT ")
	test.ExpectEquality(t, fourcc.New("BIT"), fourcc.New("BIT "))

	// codes longer than four characters are truncated
	test.ExpectEquality(t, fourcc.New("FLOAT"), fourcc.New("FLOA"))

	// distinct codes must not collide
	test.ExpectInequality(t, fourcc.New("STAT"), fourcc.New("DELT"))
}
