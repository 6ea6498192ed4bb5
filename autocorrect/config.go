// Package autocorrect - XMAlab-style refinement of tracked bead coordinates.
//
// The package takes per-frame 2D marker predictions from an upstream pose
// model, inspects a small neighborhood of each source video frame, and snaps
// every prediction to the centroid of the most plausible detected blob.
package autocorrect

import "github.com/xromm-lab/go-xma/config"

// FilterConfig contains the image-processing parameters for one trial run.
//
// A single FilterConfig is loaded per trial and treated as immutable; every
// filtering step reads from it and nothing writes to it after construction.
type FilterConfig struct {
	// SearchArea is the half-width of the crop window around a predicted point.
	SearchArea int
	// Threshold is the percent-scale offset into the adaptive crop threshold.
	Threshold float64
	// KRad is the blur kernel radius for the primary enhancement pass.
	KRad int
	// GSigma is the Gaussian spread paired with KRad.
	GSigma float64
	// ImgWt is the weight of the original image in the unsharp blend.
	ImgWt float64
	// BlurWt is the weight of the blurred image in the unsharp blend.
	BlurWt float64
	// Gamma is the exponent of the per-channel gamma lookup.
	Gamma float64
}

// DefaultFilterConfig returns the stock filtering parameters.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		SearchArea: 15,
		Threshold:  8,
		KRad:       17,
		GSigma:     10,
		ImgWt:      3.6,
		BlurWt:     -2.9,
		Gamma:      0.10,
	}
}

// FilterFromProject maps a validated project configuration onto the engine's
// filter parameters.
func FilterFromProject(p *config.Project) FilterConfig {
	return FilterConfig{
		SearchArea: int(p.SearchArea),
		Threshold:  p.Threshold,
		KRad:       p.KRad,
		GSigma:     p.GSigma,
		ImgWt:      p.ImgWt,
		BlurWt:     p.BlurWt,
		Gamma:      p.Gamma,
	}
}
