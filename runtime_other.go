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

//go:build !linux

package main

import (
	"github.com/tregarth/switchboard/config"
	"github.com/tregarth/switchboard/curated"
	"github.com/tregarth/switchboard/platform"
	"github.com/tregarth/switchboard/platform/sdl"
)

func newRuntime(cfg *config.Config) (platform.Runtime, error) {
	switch cfg.Platform.Backend {
	case "sdl":
		return sdl.NewRuntime(cfg)
	case "evdev":
		return nil, curated.Errorf("main: the evdev backend is only available on linux")
	}
	return nil, curated.Errorf("main: unknown backend (%s)", cfg.Platform.Backend)
}
