package autocorrect

import (
	"crypto/md5"
	"encoding/hex"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// matChecksum hashes a Mat's pixel data so whole frames can be compared for
// bit-identity.
func matChecksum(t *testing.T, mat gocv.Mat) string {
	t.Helper()
	data, err := mat.DataPtrUint8()
	require.NoError(t, err)
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// syntheticFrame builds a uniform 8UC3 frame with the given background
// intensity and optional filled disks drawn onto it.
func syntheticFrame(t *testing.T, width, height int, background uint8, disks ...image.Point) gocv.Mat {
	t.Helper()
	frame := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(background), float64(background), float64(background), 0),
		height, width, gocv.MatTypeCV8UC3)
	for _, center := range disks {
		gocv.Circle(&frame, center, 4, color.RGBA{R: 255, G: 255, B: 255}, -1)
	}
	return frame
}

// TestCorrectPointSnapsToDisk runs the full crop pipeline against a single
// bright disk: a prediction a couple of pixels off should land back on the
// disk centroid.
func TestCorrectPointSnapsToDisk(t *testing.T) {
	frame := syntheticFrame(t, 100, 100, 0, image.Pt(50, 50))
	defer frame.Close()

	engine := NewEngine(DefaultFilterConfig(), nil)
	x, y, found := engine.CorrectPoint(frame, 48, 48)

	require.True(t, found, "a high-contrast disk must produce a candidate")
	assert.InDelta(t, 50.0, x, 1.5)
	assert.InDelta(t, 50.0, y, 1.5)
}

// TestCorrectPointPrefersNearerDisk places two identical disks in the search
// window; the one closer to the prediction must win.
func TestCorrectPointPrefersNearerDisk(t *testing.T) {
	frame := syntheticFrame(t, 120, 120, 0, image.Pt(50, 50), image.Pt(70, 50))
	defer frame.Close()

	cfg := DefaultFilterConfig()
	cfg.SearchArea = 25 // wide enough to see both disks
	engine := NewEngine(cfg, nil)

	x, y, found := engine.CorrectPoint(frame, 54, 50)
	require.True(t, found)
	assert.InDelta(t, 50.0, x, 1.5, "nearer disk should be selected")
	assert.InDelta(t, 50.0, y, 1.5)

	x, _, found = engine.CorrectPoint(frame, 66, 50)
	require.True(t, found)
	assert.InDelta(t, 70.0, x, 1.5, "selection must follow the prediction")
}

// TestCorrectPointFeaturelessCrop verifies the identity property: no
// detected candidate leaves the prediction byte-for-byte unchanged.
func TestCorrectPointFeaturelessCrop(t *testing.T) {
	frame := syntheticFrame(t, 100, 100, 128)
	defer frame.Close()

	engine := NewEngine(DefaultFilterConfig(), nil)
	x, y, found := engine.CorrectPoint(frame, 48.25, 51.75)

	assert.False(t, found)
	assert.Equal(t, 48.25, x)
	assert.Equal(t, 51.75, y)
}

// TestCorrectPointOutsideFrame verifies a prediction whose search window
// falls off the frame is returned untouched instead of failing.
func TestCorrectPointOutsideFrame(t *testing.T) {
	frame := syntheticFrame(t, 100, 100, 0, image.Pt(50, 50))
	defer frame.Close()

	engine := NewEngine(DefaultFilterConfig(), nil)
	x, y, found := engine.CorrectPoint(frame, -40, -40)

	assert.False(t, found)
	assert.Equal(t, -40.0, x)
	assert.Equal(t, -40.0, y)
}

// TestCorrectPointDeterministic runs the pipeline twice over the same frame
// and expects bit-identical results, and expects the frame itself to come
// through unmodified.
func TestCorrectPointDeterministic(t *testing.T) {
	frame := syntheticFrame(t, 100, 100, 0, image.Pt(50, 50))
	defer frame.Close()

	before := matChecksum(t, frame)
	engine := NewEngine(DefaultFilterConfig(), nil)

	x1, y1, found1 := engine.CorrectPoint(frame, 48, 48)
	x2, y2, found2 := engine.CorrectPoint(frame, 48, 48)

	assert.Equal(t, found1, found2)
	assert.Equal(t, x1, x2)
	assert.Equal(t, y1, y2)
	assert.Equal(t, before, matChecksum(t, frame), "pipeline must not mutate the source frame")
}

// TestNewEngineClampsSearchArea verifies a hand-built config cannot shrink
// the crop below the enforced minimum half-width.
func TestNewEngineClampsSearchArea(t *testing.T) {
	cfg := DefaultFilterConfig()
	cfg.SearchArea = 3
	engine := NewEngine(cfg, nil)
	assert.Equal(t, 10, engine.cfg.SearchArea)
}
