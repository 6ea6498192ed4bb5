package autocorrect

import (
	"image"
	"math"

	"gocv.io/x/gocv"
)

// Enhance runs the bead-enhancement pipeline on a crop and returns a new Mat
// of the same size and type. The caller owns the result and must close it.
//
// The pipeline is an unsharp mask followed by a gamma lookup:
//  1. Gaussian blur with a (2*KRad+1) square kernel and GSigma spread.
//  2. Blend original and blurred with weights ImgWt and BlurWt.
//  3. Per-channel gamma lookup 255*(v/255)^Gamma.
//
// It runs twice per detection: once with the full trial parameters to make
// the bead stand out, and once with a small kernel (KRad=3, remaining
// parameters at their defaults) to sharpen blob shapes before thresholding.
func Enhance(src gocv.Mat, cfg FilterConfig) gocv.Mat {
	k := 2*cfg.KRad + 1

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(src, &blurred, image.Pt(k, k), cfg.GSigma, 0, gocv.BorderDefault)

	blended := gocv.NewMat()
	defer blended.Close()
	gocv.AddWeighted(src, cfg.ImgWt, blurred, cfg.BlurWt, 0, &blended)

	lut := gammaLUT(cfg.Gamma)
	defer lut.Close()
	out := gocv.NewMat()
	gocv.LUT(blended, lut, &out)
	return out
}

// gammaLUT builds the 256-entry gamma lookup table. Entries truncate rather
// than round, matching how the curve has always been quantized here.
func gammaLUT(gamma float64) gocv.Mat {
	table := make([]byte, 256)
	for i := range table {
		table[i] = byte(math.Pow(float64(i)/255.0, gamma) * 255.0)
	}
	lut, err := gocv.NewMatFromBytes(1, 256, gocv.MatTypeCV8U, table)
	if err != nil {
		// 256 bytes into a 1x256 8U Mat cannot fail; keep the signature clean.
		panic(err)
	}
	return lut
}
