package autocorrect

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// snapshotScale is the upscale factor for debug crop snapshots. Crops are a
// few dozen pixels wide, so they are blown up before annotation to stay
// readable.
const snapshotScale = 5

var (
	predictedColor = color.RGBA{R: 255, G: 255, A: 255}
	detectedColor  = color.RGBA{B: 255, A: 255}
)

// saveSnapshot writes an annotated, upscaled PNG of the crop around the
// predicted point. The predicted position is marked in yellow; the detected
// centroid, when there is one, in blue.
func (e *Engine) saveSnapshot(path string, frame gocv.Mat, x, y, cx, cy float64, found bool) error {
	window := SearchWindow(x, y, e.cfg.SearchArea).Clamp(frame.Cols(), frame.Rows())
	if window.Undersized() {
		return errors.New("crop window degenerate, nothing to render")
	}
	crop := Subimage(frame, window)
	defer crop.Close()

	src, err := crop.ToImage()
	if err != nil {
		return errors.Wrap(err, "converting crop to image")
	}
	scaled := resize.Resize(
		uint(window.Width()*snapshotScale),
		uint(window.Height()*snapshotScale),
		src, resize.NearestNeighbor)

	canvas := image.NewRGBA(scaled.Bounds())
	draw.Draw(canvas, canvas.Bounds(), scaled, scaled.Bounds().Min, draw.Src)

	mark := func(fx, fy float64, c color.RGBA) {
		px := int((fx - float64(window.X0)) * snapshotScale)
		py := int((fy - float64(window.Y0)) * snapshotScale)
		drawCross(canvas, px, py, c)
	}
	mark(x, y, predictedColor)
	if found {
		mark(cx, cy, detectedColor)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating snapshot file")
	}
	defer f.Close()
	return errors.Wrap(png.Encode(f, canvas), "encoding snapshot png")
}

// drawCross paints an 11-pixel cross marker centered on (x, y).
func drawCross(img *image.RGBA, x, y int, c color.RGBA) {
	const arm = 5
	for d := -arm; d <= arm; d++ {
		if p := image.Pt(x+d, y); p.In(img.Bounds()) {
			img.SetRGBA(p.X, p.Y, c)
		}
		if p := image.Pt(x, y+d); p.In(img.Bounds()) {
			img.SetRGBA(p.X, p.Y, c)
		}
	}
}
