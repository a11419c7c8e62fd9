package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/ftgen/internal/db"
)

func runExport(t *testing.T, project string, opts ExportOptions) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunExport(&buf, project, opts))
	return buf.String()
}

func TestExport_RequiresInit(t *testing.T) {
	dir := inTempDir(t)
	path := writeFeature(t, dir, "login.feature", loginFeature)

	err := RunExport(&bytes.Buffer{}, path, ExportOptions{Dialects: []string{"gherkin"}, OutputDir: "out"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run `ftgen init` first")
}

func TestExport_WritesEveryDialectSection(t *testing.T) {
	dir := inTempDir(t)
	runInit(t)
	path := writeFeature(t, dir, "login.feature", loginFeature)

	out := runExport(t, path, ExportOptions{Dialects: []string{"gherkin", "robotframework"}, OutputDir: "out"})

	for _, rel := range []string{
		"gherkin/login.feature",
		"gherkin/folders/login.feature",
		"robotframework/login.robot",
		"robotframework/keywords.robot",
		"robotframework/suites/login.robot",
	} {
		p := filepath.Join(dir, "out", filepath.FromSlash(rel))
		_, err := os.Stat(p)
		require.NoError(t, err, rel)
		assert.Contains(t, out, "new  "+filepath.Join("out", filepath.FromSlash(rel))+"\n")
	}
	assert.Contains(t, out, "exported 5 files\n")

	data, err := os.ReadFile(filepath.Join(dir, "out", "gherkin", "login.feature"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Feature: Login\n")

	keywords, err := os.ReadFile(filepath.Join(dir, "out", "robotframework", "keywords.robot"))
	require.NoError(t, err)
	assert.Contains(t, string(keywords), "i_login_as_p0\n    [Arguments]    ${p0}\n")
}

func TestExport_SecondRunTracksUnchangedFiles(t *testing.T) {
	dir := inTempDir(t)
	runInit(t)
	path := writeFeature(t, dir, "login.feature", loginFeature)
	opts := ExportOptions{Dialects: []string{"gherkin"}, Only: "features", OutputDir: "out"}

	out := runExport(t, path, opts)
	assert.Contains(t, out, "new  "+filepath.Join("out", "gherkin", "login.feature"))

	out = runExport(t, path, opts)
	assert.Contains(t, out, "trk  "+filepath.Join("out", "gherkin", "login.feature"))

	writeFeature(t, dir, "login.feature", loginFeature+"    And I see \"Logout\"\n")
	out = runExport(t, path, opts)
	assert.Contains(t, out, "upd  "+filepath.Join("out", "gherkin", "login.feature"))

	data, err := os.ReadFile(filepath.Join(dir, "out", "gherkin", "login.feature"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `And I see "Logout"`)
}

func TestExport_RestoresDeletedTrackedFile(t *testing.T) {
	dir := inTempDir(t)
	runInit(t)
	path := writeFeature(t, dir, "login.feature", loginFeature)
	opts := ExportOptions{Dialects: []string{"gherkin"}, Only: "features", OutputDir: "out"}

	runExport(t, path, opts)
	target := filepath.Join(dir, "out", "gherkin", "login.feature")
	require.NoError(t, os.Remove(target))

	out := runExport(t, path, opts)
	assert.Contains(t, out, "trk  ")
	_, err := os.Stat(target)
	assert.NoError(t, err)
}

func TestExport_RecordsManifestAndRun(t *testing.T) {
	dir := inTempDir(t)
	runInit(t)
	path := writeFeature(t, dir, "login.feature", loginFeature)

	runExport(t, path, ExportOptions{Dialects: []string{"godog"}, OutputDir: "out"})

	sqlDB, err := db.Open(db.Path)
	require.NoError(t, err)
	defer sqlDB.Close()

	counts, err := db.CountBySection(sqlDB)
	require.NoError(t, err)
	assert.Equal(t, []db.DialectCount{
		{Dialect: "godog", Section: "actionwords", Count: 1},
		{Dialect: "godog", Section: "features", Count: 1},
		{Dialect: "godog", Section: "folders", Count: 1},
		{Dialect: "godog", Section: "step_definitions", Count: 1},
	}, counts)

	var project string
	var n int
	require.NoError(t, sqlDB.QueryRow(`SELECT project, artifacts FROM exports`).Scan(&project, &n))
	assert.Equal(t, "Login", project)
	assert.Equal(t, 4, n)
}

func TestExport_UnknownDialectWritesNothing(t *testing.T) {
	dir := inTempDir(t)
	runInit(t)
	path := writeFeature(t, dir, "login.feature", loginFeature)

	err := RunExport(&bytes.Buffer{}, path, ExportOptions{Dialects: []string{"gherkin", "cobol"}, OutputDir: "out"})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "out"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExport_YAMLProject(t *testing.T) {
	dir := inTempDir(t)
	runInit(t)
	path := writeFeature(t, dir, "colors.yaml", `name: Colors
scenarios:
  - name: Mix
    steps:
      - given: I have "blue"
      - when: I add "yellow"
      - then: I get "green"
`)

	out := runExport(t, path, ExportOptions{Dialects: []string{"behave"}, Only: "actionwords", OutputDir: "out"})
	assert.Contains(t, out, "exported 1 files\n")

	data, err := os.ReadFile(filepath.Join(dir, "out", "behave", "features", "steps", "actionwords.py"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "def i_have_p0(self, p0):")
}

func TestExport_FailedWriteIsNotTracked(t *testing.T) {
	dir := inTempDir(t)
	runInit(t)
	path := writeFeature(t, dir, "login.feature", loginFeature)
	opts := ExportOptions{Dialects: []string{"gherkin"}, Only: "features", OutputDir: "out"}

	target := filepath.Join(dir, "out", "gherkin", "login.feature")
	require.NoError(t, os.MkdirAll(target, 0o755))

	require.Error(t, RunExport(&bytes.Buffer{}, path, opts))
	require.Error(t, RunExport(&bytes.Buffer{}, path, opts), "a failed write must not be recorded as tracked")

	require.NoError(t, os.Remove(target))
	out := runExport(t, path, opts)
	assert.Contains(t, out, "new  "+filepath.Join("out", "gherkin", "login.feature"))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Feature: Login\n")
}
