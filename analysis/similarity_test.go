package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xromm-lab/go-xma/points"
)

func mustTable(t *testing.T, csv string) *points.Table {
	t.Helper()
	table, err := points.Read(strings.NewReader(csv))
	require.NoError(t, err)
	return table
}

const header = "m1_cam1_X,m1_cam1_Y,m1_cam2_X,m1_cam2_Y\n"

func TestCompareIdenticalTables(t *testing.T) {
	a := mustTable(t, header+"10,20,30,40\n11,21,31,41\n")
	b := mustTable(t, header+"10,20,30,40\n11,21,31,41\n")

	report, err := Compare(a, b)
	require.NoError(t, err)
	require.Len(t, report.PerMarker, 2, "one delta per marker per camera")
	for _, delta := range report.PerMarker {
		assert.Zero(t, delta.MeanDX)
		assert.Zero(t, delta.MeanDY)
	}
	assert.Zero(t, report.Mean)
}

func TestCompareKnownOffset(t *testing.T) {
	a := mustTable(t, header+"10,20,30,40\n12,22,32,42\n")
	b := mustTable(t, header+"11,18,30,40\n13,20,32,42\n")

	report, err := Compare(a, b)
	require.NoError(t, err)

	cam1 := report.PerMarker[0]
	assert.Equal(t, "m1", cam1.Marker)
	assert.Equal(t, "cam1", cam1.Camera)
	assert.InDelta(t, -1.0, cam1.MeanDX, 1e-12)
	assert.InDelta(t, 2.0, cam1.MeanDY, 1e-12)

	cam2 := report.PerMarker[1]
	assert.Zero(t, cam2.MeanDX)
	assert.Zero(t, cam2.MeanDY)

	// Aggregate over |−1|, |2|, 0, 0.
	assert.InDelta(t, 0.75, report.Mean, 1e-12)
}

func TestCompareSchemaMismatch(t *testing.T) {
	a := mustTable(t, header+"10,20,30,40\n")
	b := mustTable(t, header+"10,20,30,40\n11,21,31,41\n")
	_, err := Compare(a, b)
	assert.Error(t, err, "frame count mismatch")

	c := mustTable(t, "m2_cam1_X,m2_cam1_Y,m2_cam2_X,m2_cam2_Y\n10,20,30,40\n")
	_, err = Compare(a, c)
	assert.Error(t, err, "column name mismatch")
}

// TestCompareFrameIndexMismatch verifies two tables with the same row count
// but different untracked gaps are refused rather than compared row by row.
func TestCompareFrameIndexMismatch(t *testing.T) {
	a := mustTable(t, header+"10,20,30,40\nNaN,NaN,NaN,NaN\n11,21,31,41\n")
	b := mustTable(t, header+"10,20,30,40\n11,21,31,41\n")
	_, err := Compare(a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame 2 in one table and frame 1")
}
