package autocorrect

import (
	"image"
	"math"

	"gocv.io/x/gocv"
)

// backgroundRadius is the kernel radius of the local background estimate.
// It is fixed (round of 1.5*5) and independent of the configurable KRad.
const backgroundRadius = 8

// Candidate is a detected blob for one marker, camera, and frame: the center
// and radius of the minimal enclosing circle of an external contour, in frame
// coordinates.
type Candidate struct {
	X, Y   float32
	Radius float32
}

// DetectBlobs extracts candidate blob centroids from an enhanced crop.
//
// The crop is band-passed against a large-radius blurred copy of itself,
// rescaled to full range, despeckled, re-sharpened, and binarized with an
// adaptive inverted threshold. External contours of the smoothed mask become
// candidates, with centroids offset by the crop origin back into frame space.
//
// Arguments:
//   - enhanced: The output of Enhance for this crop.
//   - window: The crop window, used to translate centroids into frame space.
//   - cfg: Trial filter parameters (only Threshold is read here).
//
// Returns:
//   - []Candidate: Zero or more candidates in contour-extraction order.
func DetectBlobs(enhanced gocv.Mat, window Window, cfg FilterConfig) []Candidate {
	asFloat := gocv.NewMat()
	defer asFloat.Close()
	enhanced.ConvertTo(&asFloat, gocv.MatTypeCV32F)

	// Local background estimate. The sigma ties the kernel's reach to the
	// full 8-bit intensity range.
	sigma := float64(backgroundRadius)*math.Sqrt(2*math.Log(255)) - 1
	k := 2*backgroundRadius + 1
	background := gocv.NewMat()
	defer background.Close()
	gocv.GaussianBlur(asFloat, &background, image.Pt(k, k), sigma, 0, gocv.BorderDefault)

	// Band-pass: subtract the background and stretch back to displayable range.
	diff := gocv.NewMat()
	defer diff.Close()
	gocv.Subtract(asFloat, background, &diff)
	gocv.Normalize(diff, &diff, 0, 255, gocv.NormMinMax)
	diff8 := gocv.NewMat()
	defer diff8.Close()
	diff.ConvertTo(&diff8, gocv.MatTypeCV8U)

	median := gocv.NewMat()
	defer median.Close()
	gocv.MedianBlur(diff8, &median, 3)

	// Lightweight sharpening pass before thresholding. This deliberately uses
	// the stock parameters with a small kernel, not the trial's.
	sharpCfg := DefaultFilterConfig()
	sharpCfg.KRad = 3
	sharp := Enhance(median, sharpCfg)
	defer sharp.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	if sharp.Channels() == 3 {
		gocv.CvtColor(sharp, &gray, gocv.ColorBGRToGray)
	} else {
		sharp.CopyTo(&gray)
	}

	// A featureless crop carries no blob to find. Without this guard the
	// inverted threshold would turn the whole crop into one giant contour
	// centered on the crop midpoint.
	minVal, maxVal, _, _ := gocv.MinMaxLoc(gray)
	if minVal == maxVal {
		return nil
	}
	// Adaptive inverted threshold: beads and their band-pass halos are the
	// darkest structures in the crop.
	thresh := 0.5*float64(minVal) + 0.5*gray.Mean().Val1 + cfg.Threshold*0.01*255
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(gray, &mask, float32(thresh), 255, gocv.ThresholdBinaryInv)

	// Soften jagged mask edges before contour extraction.
	smoothed := gocv.NewMat()
	defer smoothed.Close()
	gocv.GaussianBlur(mask, &smoothed, image.Pt(3, 3), 1.3, 0, gocv.BorderDefault)

	contours := gocv.FindContours(smoothed, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var candidates []Candidate
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		x, y, radius := gocv.MinEnclosingCircle(contour)
		contour.Close()
		candidates = append(candidates, Candidate{
			X:      x + float32(window.X0),
			Y:      y + float32(window.Y0),
			Radius: radius,
		})
	}
	return candidates
}
