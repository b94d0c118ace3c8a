// Package geometry holds the small value types shared by the condition and
// constraint layers: sizes, rectangles, insets, and the device-pixel rounding
// used to keep size comparisons stable at fractional boundaries.
package geometry

import "math"

// Size is a width/height pair in points.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an origin + size in points.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size returns the rect's size.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Insets describes edge insets in points.
type Insets struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
}

// Uniform returns insets with the same value on all four edges.
func Uniform(v float64) Insets {
	return Insets{Top: v, Left: v, Bottom: v, Right: v}
}

// PixelRound rounds a point value to whole device pixels at the given display
// scale. The result is an integer pixel count, not points.
//
// Comparing pixel-rounded values on both sides of a size condition avoids
// flapping when a dimension hovers at a fractional boundary (99.9999 points at
// 3x is the same 300 pixels as 100 points).
func PixelRound(points, scale float64) int64 {
	if scale <= 0 {
		scale = 1
	}
	return int64(math.Round(points * scale))
}
