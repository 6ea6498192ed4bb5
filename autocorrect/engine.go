package autocorrect

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/xromm-lab/go-xma/config"
	"github.com/xromm-lab/go-xma/points"
	"github.com/xromm-lab/go-xma/video"
)

// Cameras is the fixed camera pair of a trial, processed in this order.
var Cameras = []string{"cam1", "cam2"}

// Engine refines every tracked coordinate of a trial against the trial's
// source videos.
//
// Processing is fully sequential over (camera, frame, marker). Each camera's
// video is decoded front to back exactly once; each frame refines only that
// frame's table cells, so no cell is touched by more than one update.
type Engine struct {
	cfg FilterConfig
	log *zap.SugaredLogger

	// SnapshotDir, when non-empty, enables debug crop snapshots for
	// SnapshotMarker: every processed frame writes an annotated PNG of the
	// marker's crop into the directory.
	SnapshotDir    string
	SnapshotMarker string
}

// NewEngine creates an engine with the given filter parameters.
//
// A nil logger disables logging. The search area is clamped to the enforced
// minimum so a hand-built FilterConfig cannot shrink the crop below what the
// detector needs.
func NewEngine(cfg FilterConfig, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg.SearchArea < config.MinSearchArea {
		cfg.SearchArea = config.MinSearchArea
	}
	return &Engine{cfg: cfg, log: log}
}

// CorrectTrial refines table in place against the camera videos in trialDir.
//
// The marker set is discovered once from the table's columns. For each camera
// the trial video is decoded sequentially and every tracked frame's markers
// are refined. A missing video or an undecodable frame aborts the trial;
// a marker with no detected blob keeps its predicted coordinate.
//
// Cancellation is checked at the top of every per-frame iteration, so a
// canceled context stops the trial within one frame's worth of work.
func (e *Engine) CorrectTrial(ctx context.Context, trialDir string, table *points.Table) error {
	trial := filepath.Base(trialDir)
	markers := table.Markers()
	for _, camera := range Cameras {
		if err := e.correctCamera(ctx, trialDir, trial, camera, markers, table); err != nil {
			return errors.Wrapf(err, "trial %s %s", trial, camera)
		}
	}
	return nil
}

func (e *Engine) correctCamera(ctx context.Context, trialDir, trial, camera string, markers []string, table *points.Table) error {
	path, err := video.CamFile(trialDir, camera)
	if err != nil {
		return err
	}
	stream, err := video.Open(path)
	if err != nil {
		return err
	}
	defer stream.Close()

	rows := table.NumFrames()
	if needed := table.LastFrame() + 1; needed > stream.FrameCount() {
		return errors.Errorf("points table expects %d frames but %s reports %d",
			needed, path, stream.FrameCount())
	}
	e.log.Infow("autocorrecting video",
		"trial", trial, "camera", camera,
		"tracked_frames", rows, "video_frames", stream.FrameCount())

	frame := gocv.NewMat()
	defer frame.Close()
	for row := 0; row < rows; row++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "canceled before row %d", row)
		}
		// Decode up to the row's source frame. Untracked frames dropped at
		// load time are decoded and discarded, keeping the pairing intact.
		index := table.FrameIndex(row)
		for stream.NextIndex() <= index {
			if err := stream.Next(&frame); err != nil {
				return err
			}
		}
		e.log.Debugw("current frame", "camera", camera, "frame", index)
		if err := e.correctFrame(frame, trial, camera, index, row, markers, table); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) correctFrame(frame gocv.Mat, trial, camera string, index, row int, markers []string, table *points.Table) error {
	for _, marker := range markers {
		x, y, err := table.Point(row, marker, camera)
		if err != nil {
			return err
		}
		cx, cy, found := e.CorrectPoint(frame, x, y)

		if e.SnapshotDir != "" && marker == e.SnapshotMarker {
			name := fmt.Sprintf("%s_%s_%04d.png", trial, camera, index)
			path := filepath.Join(e.SnapshotDir, name)
			if err := e.saveSnapshot(path, frame, x, y, cx, cy, found); err != nil {
				e.log.Warnw("crop snapshot failed", "path", path, "error", err)
			}
		}

		if !found {
			continue
		}
		if err := table.SetPoint(row, marker, camera, cx, cy); err != nil {
			return err
		}
	}
	return nil
}

// CorrectPoint refines a single predicted coordinate against a frame.
//
// Returns the refined coordinate and true, or the input coordinate and false
// when the crop is degenerate or no blob was detected.
func (e *Engine) CorrectPoint(frame gocv.Mat, x, y float64) (float64, float64, bool) {
	window := SearchWindow(x, y, e.cfg.SearchArea).Clamp(frame.Cols(), frame.Rows())
	if window.Undersized() {
		return x, y, false
	}

	crop := Subimage(frame, window)
	defer crop.Close()
	enhanced := Enhance(crop, e.cfg)
	defer enhanced.Close()

	candidates := DetectBlobs(enhanced, window, e.cfg)
	best, ok := Nearest(x, y, candidates)
	if !ok {
		return x, y, false
	}
	return float64(best.X), float64(best.Y), true
}
