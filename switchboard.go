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

package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/tregarth/switchboard/config"
	"github.com/tregarth/switchboard/input"
	"github.com/tregarth/switchboard/input/buffers"
	"github.com/tregarth/switchboard/logger"
	"github.com/tregarth/switchboard/modalflag"
	"github.com/tregarth/switchboard/monitor"
	"github.com/tregarth/switchboard/platform"
	"github.com/tregarth/switchboard/statsview"
	"github.com/tregarth/switchboard/version"
)

// the tick rate of the standalone engine loop
const tickInterval = 16 * time.Millisecond

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.AddSubModes("RUN", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)
	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)
	case "VERSION":
		err = showVersion(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %v\n", md.String(), err)
		os.Exit(20)
	}
}

func showVersion(md *modalflag.Modes) error {
	md.NewMode()
	revisionFlag := md.AddBool("revision", false, "display vcs revision")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	vrsn, revision, release := version.Version()
	fmt.Printf("%s (%s)\n", version.ApplicationName, vrsn)
	if *revisionFlag && !release {
		fmt.Println(revision)
	}

	return nil
}

func run(md *modalflag.Modes) error {
	md.NewMode()
	useMonitor := md.AddBool("monitor", true, "show the terminal device monitor")
	stats := md.AddBool("stats", false, "launch the stats server (requires the statsview build)")
	logEcho := md.AddBool("log", false, "echo log entries to stderr")
	backend := md.AddString("backend", "", "platform backend, overriding the config file")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	cfgPath, err := config.Path()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		// a broken config file is not fatal, the defaults are
		logger.Logf("main", "%v", err)
	}

	if *logEcho || cfg.Log.Echo {
		logger.SetEcho(os.Stderr)
	}
	if *backend != "" {
		cfg.Platform.Backend = *backend
	}
	if *stats {
		statsview.Launch(os.Stdout)
	}

	sys := input.NewSystem()
	sys.SetEpsilon(cfg.Input.Epsilon)

	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	sess := platform.NewSession(sys, rt)
	defer sess.Close()

	var mon *monitor.Monitor
	if *useMonitor {
		mon, err = monitor.NewMonitor(sys)
		if err != nil {
			return err
		}
		defer mon.CleanUp()
	}

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	start := time.Now()
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-intChan:
			return nil

		case <-ticker.C:
			if err := sess.Tick(time.Since(start).Seconds()); err != nil {
				return err
			}
			if err := sys.Update(buffers.BeforeRender); err != nil {
				return err
			}
			if mon != nil {
				mon.Render()
				if !mon.Check() {
					return nil
				}
			}
		}
	}
}
