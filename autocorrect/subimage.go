package autocorrect

import (
	"image"
	"math"

	"gocv.io/x/gocv"
)

// Window is a crop window in frame coordinates with inclusive bounds: the
// crop covers columns X0..X1 and rows Y0..Y1.
type Window struct {
	X0, Y0, X1, Y1 int
}

// SearchWindow computes the crop window of half-width radius around a
// predicted point.
//
// Both bounds use the half-up rounding rule floor(v ± r + 0.5). The rule
// looks like a hack but it decides which pixels fall inside the crop at
// boundary cases, so it is kept verbatim rather than replaced with a cleaner
// rounding mode.
func SearchWindow(x, y float64, radius int) Window {
	r := float64(radius)
	return Window{
		X0: int(math.Floor(x - r + 0.5)),
		Y0: int(math.Floor(y - r + 0.5)),
		X1: int(math.Floor(x + r + 0.5)),
		Y1: int(math.Floor(y + r + 0.5)),
	}
}

// Clamp intersects the window with a width×height frame.
func (w Window) Clamp(width, height int) Window {
	if w.X0 < 0 {
		w.X0 = 0
	}
	if w.Y0 < 0 {
		w.Y0 = 0
	}
	if w.X1 > width-1 {
		w.X1 = width - 1
	}
	if w.Y1 > height-1 {
		w.Y1 = height - 1
	}
	return w
}

// Width returns the number of pixel columns covered by the window.
func (w Window) Width() int { return w.X1 - w.X0 + 1 }

// Height returns the number of pixel rows covered by the window.
func (w Window) Height() int { return w.Y1 - w.Y0 + 1 }

// Undersized reports whether the window is too small to run detection on.
// Clamping against a frame edge can shrink the crop below the smallest
// filter kernel, at which point there is nothing useful to detect in it.
func (w Window) Undersized() bool {
	return w.Width() < 3 || w.Height() < 3
}

// Rect converts the window to a half-open image.Rectangle.
func (w Window) Rect() image.Rectangle {
	return image.Rect(w.X0, w.Y0, w.X1+1, w.Y1+1)
}

// Subimage extracts the window's crop from frame. The returned Mat shares
// memory with the frame and must be closed by the caller.
func Subimage(frame gocv.Mat, w Window) gocv.Mat {
	return frame.Region(w.Rect())
}
