package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "task: demo\nexperimenter: NA\n")

	project, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "demo", project.Task)
	assert.Equal(t, dir, project.WorkingDir, "working_dir defaults to the load directory")
	assert.Equal(t, 15.0, project.SearchArea)
	assert.Equal(t, 8.0, project.Threshold)
	assert.Equal(t, 17, project.KRad)
	assert.Equal(t, 10.0, project.GSigma)
	assert.Equal(t, 3.6, project.ImgWt)
	assert.Equal(t, -2.9, project.BlurWt)
	assert.Equal(t, 0.10, project.Gamma)
}

// TestLoadSearchAreaClamp pins the search-area rule: round half-up when the
// value is at least the minimum, otherwise clamp to the minimum.
func TestLoadSearchAreaClamp(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"5", 10},
		{"9.9", 10},
		{"10", 10},
		{"15.4", 15},
		{"15.5", 16},
		{"40", 40},
	}
	for _, tc := range cases {
		dir := t.TempDir()
		writeConfig(t, dir, "task: demo\nsearch_area: "+tc.in+"\n")
		project, err := Load(dir)
		require.NoError(t, err, "search_area %s", tc.in)
		assert.Equal(t, tc.want, project.SearchArea, "search_area %s", tc.in)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), FileName)
}

func TestLoadRejectsBadParams(t *testing.T) {
	for _, body := range []string{
		"task: demo\nkrad: 0\n",
		"task: demo\ngsigma: -1\n",
		"task: demo\ngamma: 0\n",
		"task: demo\ntest_autocorrect: true\n", // requires trial_name and marker
		"task: demo\ntest_autocorrect: true\ntrial_name: your_trial_here\nmarker: m1\n",
	} {
		dir := t.TempDir()
		writeConfig(t, dir, body)
		_, err := Load(dir)
		assert.Error(t, err, "config %q should be rejected", body)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	project := Default()
	project.Task = "demo"
	project.WorkingDir = dir
	project.SearchArea = 20
	require.NoError(t, project.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, project.Task, loaded.Task)
	assert.Equal(t, 20.0, loaded.SearchArea)
}

func TestTrialsDir(t *testing.T) {
	project := Default()
	project.WorkingDir = "/data/proj"
	assert.Equal(t, filepath.Join("/data/proj", "trials"), project.TrialsDir())
}
