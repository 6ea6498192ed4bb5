package video

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// CamFile returns the path of the camera video for a trial, following the
// `{trial}_{camera}.avi` naming convention.
//
// Arguments:
//   - trialDir: Trial directory containing the camera videos.
//   - camera: Camera name, "cam1" or "cam2".
//
// Returns:
//   - string: Path to the video file.
//   - error: ErrNotFound (wrapped) naming the expected file if it is missing.
func CamFile(trialDir, camera string) (string, error) {
	trial := filepath.Base(trialDir)
	name := trial + "_" + camera + ".avi"
	path := filepath.Join(trialDir, name)
	if _, err := os.Stat(path); err != nil {
		return "", errors.Wrapf(ErrNotFound, "make sure your %s video for trial %s is named %s", camera, trial, name)
	}
	return path, nil
}

// ListTrials returns the trial subdirectories of trialsDir in lexical order.
//
// Hidden directories are skipped. An empty trials directory is an error since
// it means there is nothing to process.
func ListTrials(trialsDir string) ([]string, error) {
	entries, err := os.ReadDir(trialsDir)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "reading trials directory %s: %v", trialsDir, err)
	}

	var trials []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		trials = append(trials, entry.Name())
	}
	if len(trials) == 0 {
		return nil, errors.Wrapf(ErrNotFound,
			"empty trials directory found, put trials to be analyzed into %s", trialsDir)
	}
	return trials, nil
}

// FindPointsFile locates the 2D points CSV for a trial.
//
// A `{trial}-Predicted2DPoints.csv` is preferred when present (the upstream
// pose model writes one per trial); otherwise the trial directory must hold
// exactly one CSV file.
func FindPointsFile(trialDir string) (string, error) {
	trial := filepath.Base(trialDir)
	predicted := filepath.Join(trialDir, trial+"-Predicted2DPoints.csv")
	if _, err := os.Stat(predicted); err == nil {
		return predicted, nil
	}

	entries, err := os.ReadDir(trialDir)
	if err != nil {
		return "", errors.Wrapf(ErrNotFound, "reading trial directory %s: %v", trialDir, err)
	}
	var csvs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			csvs = append(csvs, filepath.Join(trialDir, entry.Name()))
		}
	}
	switch {
	case len(csvs) == 0:
		return "", errors.Wrapf(ErrNotFound, "couldn't find a CSV file for trial %s", trialDir)
	case len(csvs) > 1:
		return "", errors.Errorf("found more than 1 CSV file for trial %s", trialDir)
	}
	return csvs[0], nil
}
