package autocorrect

import "github.com/chewxy/math32"

// Nearest selects the candidate whose centroid has the smallest Euclidean
// distance to the predicted point.
//
// Ties on exactly equal distances go to the first candidate in
// contour-extraction order. An empty candidate set returns false, which
// callers treat as "leave the prediction unchanged" rather than an error:
// small or faint beads routinely produce no contour at all.
func Nearest(x, y float64, candidates []Candidate) (Candidate, bool) {
	best := -1
	var bestDist float32
	for i, c := range candidates {
		d := math32.Hypot(float32(x)-c.X, float32(y)-c.Y)
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return Candidate{}, false
	}
	return candidates[best], true
}
