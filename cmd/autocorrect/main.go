// Command autocorrect runs XMAlab-style bead autocorrection over every trial
// in a project's trials directory.
//
// For each trial it loads the predicted 2D points file, refines every marker
// coordinate against the trial's cam1/cam2 videos, and writes
// {trial}-AutoCorrected2DPoints.csv next to the input.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/xromm-lab/go-xma/autocorrect"
	"github.com/xromm-lab/go-xma/config"
	"github.com/xromm-lab/go-xma/logger"
	"github.com/xromm-lab/go-xma/points"
	"github.com/xromm-lab/go-xma/video"
)

// OutputSuffix is appended to the trial name to build the corrected points
// file name.
const OutputSuffix = "-AutoCorrected2DPoints.csv"

func main() {
	var (
		workingDir string
		dev        bool
	)
	flag.StringVar(&workingDir, "dir", ".", "project working directory containing project_config.yaml")
	flag.BoolVar(&dev, "debug", false, "enable debug logging and console output")
	flag.Parse()

	log, err := logger.Init(dev)
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, workingDir, log); err != nil {
		log.Errorw("autocorrect failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, workingDir string, log *zap.SugaredLogger) error {
	project, err := config.Load(workingDir)
	if err != nil {
		return err
	}

	trials, err := video.ListTrials(project.TrialsDir())
	if err != nil {
		return err
	}

	engine := autocorrect.NewEngine(autocorrect.FilterFromProject(project), log)
	for _, trial := range trials {
		trialDir := filepath.Join(project.TrialsDir(), trial)

		if project.TestAutocorrect && project.TrialName == trial {
			engine.SnapshotDir = trialDir
			engine.SnapshotMarker = project.Marker
		} else {
			engine.SnapshotDir = ""
			engine.SnapshotMarker = ""
		}

		if err := correctTrial(ctx, engine, project, trialDir, log); err != nil {
			return err
		}
	}
	return nil
}

func correctTrial(ctx context.Context, engine *autocorrect.Engine, project *config.Project, trialDir string, log *zap.SugaredLogger) error {
	input, err := video.FindPointsFile(trialDir)
	if err != nil {
		return err
	}
	table, err := points.ReadFile(input)
	if err != nil {
		return err
	}
	if project.NFrames > 0 && project.NFrames != table.NumFrames() {
		log.Warnw("project nframes does not match the points file, ignore if intentional",
			"nframes", project.NFrames, "tracked_frames", table.NumFrames())
	}

	if err := engine.CorrectTrial(ctx, trialDir, table); err != nil {
		return err
	}

	trial := filepath.Base(trialDir)
	output := filepath.Join(filepath.Dir(input), trial+OutputSuffix)
	if err := table.WriteFile(output); err != nil {
		return err
	}
	log.Infow("done", "trial", trial, "output", output)
	return nil
}
