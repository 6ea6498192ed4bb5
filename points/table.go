// Package points - In-memory coordinate tables backed by XMAlab 2D points CSV files.
package points

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrPartiallyTracked reports rows where some, but not all, marker coordinates
// are present. Autocorrection cannot run against such rows, so they are
// rejected at load time.
var ErrPartiallyTracked = errors.New("partially tracked frames present")

// Table is a mutable grid of per-frame marker coordinates.
//
// Rows are addressed positionally, 0..NumFrames()-1, but each row remembers
// the 0-based video frame it was read for: FrameIndex(row) maps a row back to
// the frame the trial's streams deliver for it. The two differ whenever
// untracked frames were dropped at load time, so consumers pairing rows with
// decoded frames must go through FrameIndex rather than assume row == frame.
// Columns follow the XMAlab naming convention `{marker}_{camera}_{axis}` with
// camera in {cam1, cam2} and axis in {X, Y}. Column order from the source
// file is preserved so the corrected table can be written back with an
// identical schema.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]float64
	frames  []int
	markers []string
}

// ColumnName builds the canonical column name for a marker coordinate.
func ColumnName(marker, camera, axis string) string {
	return marker + "_" + camera + "_" + axis
}

// markerOf strips the trailing `_{camera}_{axis}` suffix from a column name.
func markerOf(column string) string {
	for i := 0; i < 2; i++ {
		cut := strings.LastIndex(column, "_")
		if cut < 0 {
			break
		}
		column = column[:cut]
	}
	return column
}

// Read parses a 2D points CSV from r.
//
// Rows where every cell is NaN (untracked frames) are dropped, but the
// surviving rows keep their source frame index so a table with gaps still
// aligns with the trial videos. If any NaN survives that pass the file has
// partially tracked frames and the read fails with ErrPartiallyTracked.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading points csv")
	}
	if len(records) == 0 {
		return nil, errors.New("points csv has no header row")
	}

	t := &Table{
		columns: records[0],
		index:   make(map[string]int, len(records[0])),
	}
	for i, name := range t.columns {
		t.index[name] = i
	}
	for _, name := range t.columns {
		marker := markerOf(name)
		if !contains(t.markers, marker) {
			t.markers = append(t.markers, marker)
		}
	}

	partial := 0
	for line, record := range records[1:] {
		row := make([]float64, len(record))
		missing := 0
		for i, cell := range record {
			v, err := parseCell(cell)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d column %q", line+1, t.columns[i])
			}
			if math.IsNaN(v) {
				missing++
			}
			row[i] = v
		}
		if missing == len(row) {
			// Untracked frame, skip it entirely.
			continue
		}
		if missing > 0 {
			partial++
			continue
		}
		t.rows = append(t.rows, row)
		t.frames = append(t.frames, line)
	}
	if partial > 0 {
		return nil, errors.Wrapf(ErrPartiallyTracked,
			"detected %d partially tracked frames, ensure all frames are completely tracked", partial)
	}
	return t, nil
}

// ReadFile parses the 2D points CSV at path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening points file %s", path)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "points file %s", path)
	}
	return t, nil
}

func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, "nan") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Markers returns the marker names in first-seen column order.
func (t *Table) Markers() []string {
	out := make([]string, len(t.markers))
	copy(out, t.markers)
	return out
}

// Columns returns the column names in source order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// NumFrames returns the number of tracked frames in the table.
func (t *Table) NumFrames() int {
	return len(t.rows)
}

// FrameIndex returns the 0-based video frame index row was read for. The two
// only differ when untracked frames were dropped between tracked ones.
func (t *Table) FrameIndex(row int) int {
	return t.frames[row]
}

// LastFrame returns the highest video frame index any row refers to, or -1
// for an empty table.
func (t *Table) LastFrame() int {
	if len(t.frames) == 0 {
		return -1
	}
	return t.frames[len(t.frames)-1]
}

// Value returns the cell at the given row and column.
func (t *Table) Value(row int, column string) (float64, error) {
	col, ok := t.index[column]
	if !ok {
		return 0, errors.Errorf("no column %q in points table", column)
	}
	if row < 0 || row >= len(t.rows) {
		return 0, errors.Errorf("row %d out of range (%d tracked frames)", row, len(t.rows))
	}
	return t.rows[row][col], nil
}

// Point returns the (X, Y) coordinate of marker seen by camera at row.
func (t *Table) Point(row int, marker, camera string) (x, y float64, err error) {
	x, err = t.Value(row, ColumnName(marker, camera, "X"))
	if err != nil {
		return 0, 0, err
	}
	y, err = t.Value(row, ColumnName(marker, camera, "Y"))
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// SetPoint overwrites the (X, Y) coordinate of marker seen by camera at row.
func (t *Table) SetPoint(row int, marker, camera string, x, y float64) error {
	if err := t.set(row, ColumnName(marker, camera, "X"), x); err != nil {
		return err
	}
	return t.set(row, ColumnName(marker, camera, "Y"), y)
}

func (t *Table) set(row int, column string, v float64) error {
	col, ok := t.index[column]
	if !ok {
		return errors.Errorf("no column %q in points table", column)
	}
	if row < 0 || row >= len(t.rows) {
		return errors.Errorf("row %d out of range (%d tracked frames)", row, len(t.rows))
	}
	t.rows[row][col] = v
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := &Table{
		columns: append([]string(nil), t.columns...),
		index:   make(map[string]int, len(t.index)),
		markers: append([]string(nil), t.markers...),
		frames:  append([]int(nil), t.frames...),
		rows:    make([][]float64, len(t.rows)),
	}
	for name, i := range t.index {
		c.index[name] = i
	}
	for i, row := range t.rows {
		c.rows[i] = append([]float64(nil), row...)
	}
	return c
}

// Write emits the table as CSV with the original column order.
func (t *Table) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.columns); err != nil {
		return errors.Wrap(err, "writing points header")
	}
	record := make([]string, len(t.columns))
	for _, row := range t.rows {
		for i, v := range row {
			if math.IsNaN(v) {
				record[i] = "NaN"
			} else {
				record[i] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "writing points row")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "flushing points csv")
}

// WriteFile emits the table as CSV at path.
func (t *Table) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating points file %s", path)
	}
	defer f.Close()

	if err := t.Write(f); err != nil {
		return errors.Wrapf(err, "points file %s", path)
	}
	return nil
}
