// Package geo lays out place markers the way the archive map shows them:
// WGS84 points projected to spherical mercator, clustered within a fixed
// pixel distance, with the initial view fitted to the data and zoom capped.
package geo

import (
	"errors"
	"fmt"
	"math"
)

const (
	earthRadius = 6378137.0
	// MaxExtent is the half width of the EPSG:3857 world, in meters.
	MaxExtent = math.Pi * earthRadius

	TileSize = 256
	// MaxResolution is the resolution at zoom 0, meters per pixel.
	MaxResolution = 2 * MaxExtent / TileSize

	// ClusterDistance is the pixel distance under which markers merge.
	ClusterDistance = 10.0
	// MaxZoom caps the fitted zoom so a single place does not over-zoom.
	MaxZoom = 9

	// extentSlack absorbs rounding at the edges of the world.
	extentSlack = 1e-6
)

var ErrOutOfExtent = errors.New("point outside projection extent")

// Point is a projected EPSG:3857 coordinate in meters.
type Point struct {
	X, Y float64
}

// Project transforms longitude and latitude (EPSG:4326) to EPSG:3857.
// Points whose projection falls outside the world extent, e.g. beyond
// about 85.05 degrees of latitude, are rejected.
func Project(lon, lat float64) (Point, error) {
	x := earthRadius * lon * math.Pi / 180
	y := earthRadius * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))

	if math.IsNaN(x) || math.IsNaN(y) || math.Abs(x) > MaxExtent+extentSlack || math.Abs(y) > MaxExtent+extentSlack {
		return Point{}, fmt.Errorf("%w: (%g, %g)", ErrOutOfExtent, lon, lat)
	}
	return Point{X: x, Y: y}, nil
}

// Unproject transforms an EPSG:3857 point back to longitude and latitude.
func Unproject(p Point) (lon, lat float64) {
	lon = p.X / earthRadius * 180 / math.Pi
	lat = (2*math.Atan(math.Exp(p.Y/earthRadius)) - math.Pi/2) * 180 / math.Pi
	return lon, lat
}

// Feature is a named place marker.
type Feature struct {
	Name  string
	Point Point
}

// Extent is a bounding box in projected coordinates.
type Extent struct {
	MinX, MinY, MaxX, MaxY float64
}

func (e Extent) Width() float64  { return e.MaxX - e.MinX }
func (e Extent) Height() float64 { return e.MaxY - e.MinY }

func (e Extent) Center() Point {
	return Point{X: (e.MinX + e.MaxX) / 2, Y: (e.MinY + e.MaxY) / 2}
}

// ExtentOf returns the bounding box of features, false when there are none.
func ExtentOf(features []Feature) (Extent, bool) {
	if len(features) == 0 {
		return Extent{}, false
	}
	e := Extent{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, f := range features {
		e.MinX = math.Min(e.MinX, f.Point.X)
		e.MinY = math.Min(e.MinY, f.Point.Y)
		e.MaxX = math.Max(e.MaxX, f.Point.X)
		e.MaxY = math.Max(e.MaxY, f.Point.Y)
	}
	return e, true
}
