package geo

import (
	"errors"
	"math"
)

var ErrNoFeatures = errors.New("no features to fit")

// View is the visible part of the map.
type View struct {
	Center Point
	Zoom   int
	Width  int
	Height int
}

// Resolution returns meters per pixel at the view's zoom.
func (v View) Resolution() float64 {
	return MaxResolution / math.Pow(2, float64(v.Zoom))
}

// ToPixel converts a projected point to view pixels, origin top left.
func (v View) ToPixel(p Point) (float64, float64) {
	res := v.Resolution()
	px := (p.X-v.Center.X)/res + float64(v.Width)/2
	py := float64(v.Height)/2 - (p.Y-v.Center.Y)/res
	return px, py
}

// FromPixel converts view pixels to a projected point.
func (v View) FromPixel(px, py float64) Point {
	res := v.Resolution()
	return Point{
		X: v.Center.X + (px-float64(v.Width)/2)*res,
		Y: v.Center.Y - (py-float64(v.Height)/2)*res,
	}
}

// Fit centers a width x height view on the features and picks the highest
// whole zoom level that shows all of them, capped at MaxZoom.
func Fit(features []Feature, width, height int) (View, error) {
	extent, ok := ExtentOf(features)
	if !ok {
		return View{}, ErrNoFeatures
	}
	if width <= 0 || height <= 0 {
		return View{}, errors.New("view size must be positive")
	}

	v := View{Center: extent.Center(), Width: width, Height: height, Zoom: MaxZoom}

	res := math.Max(extent.Width()/float64(width), extent.Height()/float64(height))
	if res > 0 {
		zoom := int(math.Floor(math.Log2(MaxResolution / res)))
		if zoom < 0 {
			zoom = 0
		}
		if zoom < MaxZoom {
			v.Zoom = zoom
		}
	}
	return v, nil
}
