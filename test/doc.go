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

// Package test contains helper functions to remove common boilerplate in
// test functions.
//
// The Expect group of functions mark the test as failed but allow the test
// function to continue. The Demand group of functions halt the test
// immediately on failure. Demand is appropriate when subsequent testing
// makes no sense in the light of the failure. For example, demanding that
// the lengths of two slices are equal before iterating over them in unison.
//
// The optional tags arguments to every function are added to the failure
// message and help to identify the failing expectation in a test function
// with many of them.
package test
