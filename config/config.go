// Package config - Project configuration for XMAlab marker-tracking trials.
package config

import (
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the project configuration file inside a working directory.
const FileName = "project_config.yaml"

// MinSearchArea is the smallest usable half-width for the autocorrect crop window.
// Anything smaller leaves too little context around a bead for the band-pass
// filter to find it.
const MinSearchArea = 10

// Project holds the per-project settings loaded from project_config.yaml.
//
// The image-processing fields (SearchArea through Gamma) parameterize the
// autocorrect filter pipeline and are passed through to the engine unchanged
// after validation. The remaining fields describe the project itself.
type Project struct {
	// Task is the project task name, usually the working directory name.
	Task string `yaml:"task"`
	// Experimenter is the name recorded against labeled data.
	Experimenter string `yaml:"experimenter"`
	// WorkingDir is the project root containing trainingdata/ and trials/.
	WorkingDir string `yaml:"working_dir"`
	// DatasetName identifies the training dataset.
	DatasetName string `yaml:"dataset_name"`
	// NFrames is the number of tracked frames, 0 to derive from the points file.
	NFrames int `yaml:"nframes"`
	// TrackingThreshold is the recommended fraction of total frames to track.
	TrackingThreshold float64 `yaml:"tracking_threshold"`

	// SearchArea is the half-width of the autocorrect crop window in pixels.
	// Values below MinSearchArea are clamped up; fractional values are rounded
	// half-up during Load.
	SearchArea float64 `yaml:"search_area"`
	// Threshold is the offset (in percent of full intensity) added to the
	// adaptive threshold when binarizing a crop.
	Threshold float64 `yaml:"threshold"`
	// KRad is the base blur kernel radius for the enhancement pipeline.
	KRad int `yaml:"krad"`
	// GSigma is the Gaussian spread used with KRad.
	GSigma float64 `yaml:"gsigma"`
	// ImgWt is the weight of the original image in the unsharp blend.
	ImgWt float64 `yaml:"img_wt"`
	// BlurWt is the weight of the blurred image in the unsharp blend.
	BlurWt float64 `yaml:"blur_wt"`
	// Gamma is the exponent of the per-channel gamma lookup.
	Gamma float64 `yaml:"gamma"`

	// TestAutocorrect enables debug crop snapshots for a single marker.
	TestAutocorrect bool `yaml:"test_autocorrect"`
	// TrialName is the trial to snapshot when TestAutocorrect is set.
	TrialName string `yaml:"trial_name"`
	// Marker is the marker to snapshot when TestAutocorrect is set.
	Marker string `yaml:"marker"`
}

// Default returns a Project populated with the stock image-processing
// parameters. These match the values the original project template ships with
// and work well for radio-opaque beads on X-ray video.
func Default() Project {
	return Project{
		Experimenter:      "NA",
		DatasetName:       "MyData",
		TrackingThreshold: 0.1,
		SearchArea:        15,
		Threshold:         8,
		KRad:              17,
		GSigma:            10,
		ImgWt:             3.6,
		BlurWt:            -2.9,
		Gamma:             0.10,
	}
}

// Load reads and validates the project configuration in workingDir.
//
// Arguments:
//   - workingDir: Directory containing project_config.yaml.
//
// Returns:
//   - *Project: The validated configuration.
//   - error: An error if the file is missing, unparseable, or invalid.
func Load(workingDir string) (*Project, error) {
	path := filepath.Join(workingDir, FileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading project config %s", path)
	}

	project := Default()
	if err := yaml.Unmarshal(raw, &project); err != nil {
		return nil, errors.Wrapf(err, "parsing project config %s", path)
	}
	if project.WorkingDir == "" {
		project.WorkingDir = workingDir
	}
	project.normalize()

	if err := project.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid project config %s", path)
	}
	return &project, nil
}

// Save writes the configuration back to workingDir/project_config.yaml.
func (p *Project) Save(workingDir string) error {
	raw, err := yaml.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "encoding project config")
	}
	path := filepath.Join(workingDir, FileName)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errors.Wrapf(err, "writing project config %s", path)
	}
	return nil
}

// TrialsDir returns the directory holding trials to be autocorrected.
func (p *Project) TrialsDir() string {
	return filepath.Join(p.WorkingDir, "trials")
}

// normalize applies the search-area rounding rule: round half-up when the
// value is usable, otherwise clamp to the minimum.
func (p *Project) normalize() {
	if p.SearchArea >= MinSearchArea {
		p.SearchArea = math.Floor(p.SearchArea + 0.5)
	} else {
		p.SearchArea = MinSearchArea
	}
}

func (p *Project) validate() error {
	if p.KRad < 1 {
		return errors.Errorf("krad must be positive, got %d", p.KRad)
	}
	if p.GSigma <= 0 {
		return errors.Errorf("gsigma must be positive, got %v", p.GSigma)
	}
	if p.Gamma <= 0 {
		return errors.Errorf("gamma must be positive, got %v", p.Gamma)
	}
	if p.TestAutocorrect {
		if p.TrialName == "" || p.TrialName == "your_trial_here" {
			return errors.New("test_autocorrect requires trial_name to be set")
		}
		if p.Marker == "" || p.Marker == "your_marker_here" {
			return errors.New("test_autocorrect requires marker to be set")
		}
	}
	return nil
}
