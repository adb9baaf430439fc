package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `
name: passing
description: d
steps:
  - init: admin
  - query: current_id
    expect: {current_id: 0}
`

const failingScenario = `
name: failing
description: d
steps:
  - query: current_id
`

func writeSuiteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFindScenarios(t *testing.T) {
	dir := t.TempDir()
	writeSuiteFile(t, dir, "b.yaml", passingScenario)
	writeSuiteFile(t, dir, "a.yml", passingScenario)
	writeSuiteFile(t, dir, "nested/c.yaml", passingScenario)
	writeSuiteFile(t, dir, "notes.txt", "x")
	writeSuiteFile(t, dir, "golden/ignored.yaml", passingScenario)

	files, err := FindScenarios(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "nested", "c.yaml"),
	}, files)

	files, err = FindScenarios(dir, "[ab]")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestFindScenarios_InvalidFilter(t *testing.T) {
	_, err := FindScenarios(t.TempDir(), "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestGoldenPath(t *testing.T) {
	assert.Equal(t, filepath.Join("x", "golden", "two.golden"), GoldenPath(filepath.Join("x", "two.yaml")))
}

func TestRunSuite_UpdateThenMatch(t *testing.T) {
	dir := t.TempDir()
	file := writeSuiteFile(t, dir, "passing.yaml", passingScenario)
	ctx := context.Background()

	result, err := RunSuite(ctx, dir, SuiteOptions{})
	require.NoError(t, err)
	require.Len(t, result.Scenarios, 1)
	assert.True(t, result.Scenarios[0].Pass)
	assert.Equal(t, GoldenMissing, result.Scenarios[0].Golden)

	result, err = RunSuite(ctx, dir, SuiteOptions{Update: true})
	require.NoError(t, err)
	assert.Equal(t, GoldenUpdated, result.Scenarios[0].Golden)
	assert.FileExists(t, GoldenPath(file))

	result, err = RunSuite(ctx, dir, SuiteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, GoldenMatched, result.Scenarios[0].Golden)
}

func TestRunSuite_GoldenMismatch(t *testing.T) {
	dir := t.TempDir()
	file := writeSuiteFile(t, dir, "passing.yaml", passingScenario)
	writeSuiteFile(t, dir, filepath.Join("golden", "passing.golden"), "{}\n")

	result, err := RunSuite(context.Background(), dir, SuiteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	require.NotEmpty(t, result.Scenarios[0].Errors)
	assert.Contains(t, result.Scenarios[0].Errors[0], ErrGoldenMismatch.Error())
	assert.Equal(t, file, result.Scenarios[0].Path)
}

func TestRunSuite_CountsFailures(t *testing.T) {
	dir := t.TempDir()
	writeSuiteFile(t, dir, "passing.yaml", passingScenario)
	writeSuiteFile(t, dir, "failing.yaml", failingScenario)
	writeSuiteFile(t, dir, "broken.yaml", "name: [")

	result, err := RunSuite(context.Background(), dir, SuiteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 2, result.Failed)

	byName := map[string]ScenarioResult{}
	for _, sr := range result.Scenarios {
		byName[sr.Name] = sr
	}
	assert.Contains(t, byName["broken.yaml"].Errors[0], "failed to load scenario")
	assert.Contains(t, byName["failing"].Errors[0], "NOT_INITIALIZED")
}

func TestRunSuite_Filter(t *testing.T) {
	dir := t.TempDir()
	writeSuiteFile(t, dir, "passing.yaml", passingScenario)
	writeSuiteFile(t, dir, "failing.yaml", failingScenario)

	result, err := RunSuite(context.Background(), dir, SuiteOptions{Filter: "pass*"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 0, result.Failed)
}

func TestRunSuite_MissingDir(t *testing.T) {
	_, err := RunSuite(context.Background(), filepath.Join(t.TempDir(), "nope"), SuiteOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenarios directory")
}
