// Package mission turns waypoint tours into flight plans in the QGroundControl
// WPL 110 text format and uploads them to pre-signed object-store URLs.
package mission

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ctessum/geom"
)

// MAVLink frames and commands used in a plan.
const (
	FrameGlobal            = 0
	FrameGlobalRelativeAlt = 3

	CmdNavWaypoint = 16
	CmdNavLand     = 21
	CmdNavTakeoff  = 22
)

// Header is the first line of every plan file.
const Header = "QGC WPL 110"

// Options holds the altitudes and parameters of a plan. Zero fields take
// the values of DefaultOptions.
type Options struct {
	HomeAltitude    float64
	TakeoffAltitude float64
	CruiseAltitude  float64
	LandAltitude    float64
	// LandAbortAltitude is param1 of the land command.
	LandAbortAltitude float64
	// LandYaw is param4 of the land command.
	LandYaw float64
}

// DefaultOptions returns the plan defaults.
func DefaultOptions() Options {
	return Options{
		HomeAltitude:      585,
		TakeoffAltitude:   100,
		CruiseAltitude:    100,
		LandAltitude:      580,
		LandAbortAltitude: 480,
		LandYaw:           25,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	for _, f := range []struct{ v, def *float64 }{
		{&o.HomeAltitude, &d.HomeAltitude},
		{&o.TakeoffAltitude, &d.TakeoffAltitude},
		{&o.CruiseAltitude, &d.CruiseAltitude},
		{&o.LandAltitude, &d.LandAltitude},
		{&o.LandAbortAltitude, &d.LandAbortAltitude},
		{&o.LandYaw, &d.LandYaw},
	} {
		if *f.v == 0 {
			*f.v = *f.def
		}
	}
	return o
}

// Item is one mission row.
type Item struct {
	Seq          int
	Current      bool
	Frame        int
	Command      int
	Params       [4]float64
	Latitude     float64
	Longitude    float64
	Altitude     float64
	AutoContinue bool
}

// Build lays out a plan: home, takeoff above the first waypoint, every
// waypoint at cruise altitude, and a landing back at home. Points use X for
// latitude and Y for longitude.
func Build(home geom.Point, waypoints []geom.Point, opts Options) []Item {
	opts = opts.withDefaults()
	items := []Item{{
		Current:   true,
		Frame:     FrameGlobal,
		Command:   CmdNavWaypoint,
		Latitude:  home.X,
		Longitude: home.Y,
		Altitude:  opts.HomeAltitude,
	}}
	if len(waypoints) > 0 {
		items = append(items, Item{
			Frame:     FrameGlobalRelativeAlt,
			Command:   CmdNavTakeoff,
			Params:    [4]float64{15},
			Latitude:  waypoints[0].X,
			Longitude: waypoints[0].Y,
			Altitude:  opts.TakeoffAltitude,
		})
	}
	for _, wp := range waypoints {
		items = append(items, Item{
			Frame:     FrameGlobalRelativeAlt,
			Command:   CmdNavWaypoint,
			Latitude:  wp.X,
			Longitude: wp.Y,
			Altitude:  opts.CruiseAltitude,
		})
	}
	items = append(items, Item{
		Frame:     FrameGlobal,
		Command:   CmdNavLand,
		Params:    [4]float64{opts.LandAbortAltitude, 0, 0, opts.LandYaw},
		Latitude:  home.X,
		Longitude: home.Y,
		Altitude:  opts.LandAltitude,
	})
	for i := range items {
		items[i].Seq = i
		items[i].AutoContinue = true
	}
	return items
}

// Write encodes items in the WPL 110 format. Coordinates carry seven
// decimal places.
func Write(w io.Writer, items []Item) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, Header); err != nil {
		return err
	}
	for _, it := range items {
		_, err := fmt.Fprintf(bw, "%d\t%d\t%d\t%d\t%s\t%s\t%s\t%s\t%.7f\t%.7f\t%s\t%d\n",
			it.Seq, boolInt(it.Current), it.Frame, it.Command,
			num(it.Params[0]), num(it.Params[1]), num(it.Params[2]), num(it.Params[3]),
			round7(it.Latitude), round7(it.Longitude), num(it.Altitude), boolInt(it.AutoContinue))
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes items to path, creating parent directories.
func WriteFile(path string, items []Item) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create mission directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create mission file '%s': %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(f, items)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round7(v float64) float64 {
	return math.Round(v*1e7) / 1e7
}
