package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Migrates(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "ftgen.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	var version int
	require.NoError(t, sqlDB.QueryRow(`SELECT version FROM schema_version`).Scan(&version))
	assert.Equal(t, len(All), version)
}

func TestRecord_NewUpdatedTracked(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "ftgen.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	a := Artifact{Path: "generated/gherkin/colors.feature", Dialect: "gherkin", Section: "features", Checksum: "aaa"}

	state, err := Record(sqlDB, a)
	require.NoError(t, err)
	assert.Equal(t, New, state)

	state, err = Record(sqlDB, a)
	require.NoError(t, err)
	assert.Equal(t, Tracked, state)

	a.Checksum = "bbb"
	state, err = Record(sqlDB, a)
	require.NoError(t, err)
	assert.Equal(t, Updated, state)

	var checksum string
	require.NoError(t, sqlDB.QueryRow(`SELECT checksum FROM artifacts WHERE path = ?`, a.Path).Scan(&checksum))
	assert.Equal(t, "bbb", checksum)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "new", New.String())
	assert.Equal(t, "upd", Updated.String())
	assert.Equal(t, "trk", Tracked.String())
}

func TestCountBySection(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "ftgen.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	for _, a := range []Artifact{
		{Path: "b/steps.py", Dialect: "behave", Section: "step_definitions", Checksum: "1"},
		{Path: "g/a.feature", Dialect: "gherkin", Section: "features", Checksum: "2"},
		{Path: "g/b.feature", Dialect: "gherkin", Section: "features", Checksum: "3"},
	} {
		_, err := Record(sqlDB, a)
		require.NoError(t, err)
	}

	counts, err := CountBySection(sqlDB)
	require.NoError(t, err)
	assert.Equal(t, []DialectCount{
		{Dialect: "behave", Section: "step_definitions", Count: 1},
		{Dialect: "gherkin", Section: "features", Count: 2},
	}, counts)
}
