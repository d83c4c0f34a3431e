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

package logger

import (
	"strings"
	"testing"

	"github.com/tregarth/switchboard/test"
)

func TestLogger(t *testing.T) {
	l := newLogger(100)

	b := &strings.Builder{}
	l.write(b)
	test.ExpectEquality(t, b.String(), "")

	l.log("test", "this is a test")
	b.Reset()
	l.write(b)
	test.ExpectEquality(t, b.String(), "test: this is a test\n")

	// tail of one entry is the same as the whole log
	b.Reset()
	l.tail(b, 1)
	test.ExpectEquality(t, b.String(), "test: this is a test\n")
}

func TestLoggerRepeatFolding(t *testing.T) {
	l := newLogger(100)

	l.log("test", "this is a test")
	l.log("test", "this is a test")
	l.log("test", "this is a test")

	// three identical entries fold into one line with a repeat count
	b := &strings.Builder{}
	l.write(b)
	test.ExpectEquality(t, b.String(), "test: this is a test (repeat x3)\n")

	// a different detail breaks the fold
	l.log("test", "something else")
	b.Reset()
	l.tail(b, 1)
	test.ExpectEquality(t, b.String(), "test: something else\n")

	// as does the same detail under a different tag
	l.log("test2", "something else")
	b.Reset()
	l.tail(b, 1)
	test.ExpectEquality(t, b.String(), "test2: something else\n")
}

func TestLoggerMaxEntries(t *testing.T) {
	l := newLogger(2)

	l.log("test", "one")
	l.log("test", "two")
	l.log("test", "three")

	b := &strings.Builder{}
	l.write(b)
	test.ExpectEquality(t, b.String(), "test: two\ntest: three\n")
}
