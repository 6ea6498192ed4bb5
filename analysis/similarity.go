// Package analysis - QA statistics over tracked marker trajectories.
package analysis

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/xromm-lab/go-xma/points"
)

// MarkerDelta summarizes how far one marker's track in one camera drifted
// between two tables: the mean per-frame difference along each axis.
type MarkerDelta struct {
	Marker string
	Camera string
	MeanDX float64
	MeanDY float64
}

// Report aggregates per-marker deltas for a pair of coordinate tables.
type Report struct {
	PerMarker []MarkerDelta
	// Mean and StdDev summarize the absolute per-marker mean differences
	// across both axes. A rhythmic trial pair tracked consistently sits
	// close to zero.
	Mean   float64
	StdDev float64
}

// Compare computes marker similarity between two tables with identical
// schemas, typically a trial's predictions against its autocorrected output
// or against a second tracking pass.
//
// Returns an error if the schemas or frame counts differ.
func Compare(a, b *points.Table) (*Report, error) {
	if err := sameSchema(a, b); err != nil {
		return nil, err
	}

	frames := a.NumFrames()
	report := &Report{}
	var spread []float64
	for _, marker := range a.Markers() {
		for _, camera := range []string{"cam1", "cam2"} {
			dx := make([]float64, frames)
			dy := make([]float64, frames)
			for frame := 0; frame < frames; frame++ {
				ax, ay, err := a.Point(frame, marker, camera)
				if err != nil {
					return nil, err
				}
				bx, by, err := b.Point(frame, marker, camera)
				if err != nil {
					return nil, err
				}
				dx[frame] = ax - bx
				dy[frame] = ay - by
			}
			delta := MarkerDelta{
				Marker: marker,
				Camera: camera,
				MeanDX: stat.Mean(dx, nil),
				MeanDY: stat.Mean(dy, nil),
			}
			report.PerMarker = append(report.PerMarker, delta)
			spread = append(spread, abs(delta.MeanDX), abs(delta.MeanDY))
		}
	}
	report.Mean, report.StdDev = stat.MeanStdDev(spread, nil)
	return report, nil
}

func sameSchema(a, b *points.Table) error {
	if a.NumFrames() != b.NumFrames() {
		return errors.Errorf("frame count mismatch: %d vs %d", a.NumFrames(), b.NumFrames())
	}
	for i := 0; i < a.NumFrames(); i++ {
		if a.FrameIndex(i) != b.FrameIndex(i) {
			return errors.Errorf("row %d covers frame %d in one table and frame %d in the other",
				i, a.FrameIndex(i), b.FrameIndex(i))
		}
	}
	ac, bc := a.Columns(), b.Columns()
	if len(ac) != len(bc) {
		return errors.Errorf("column count mismatch: %d vs %d", len(ac), len(bc))
	}
	for i := range ac {
		if ac[i] != bc[i] {
			return errors.Errorf("column %d mismatch: %q vs %q", i, ac[i], bc[i])
		}
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
