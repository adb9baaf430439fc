package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/msgboard/internal/store"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: test_scenario
description: "Test scenario for validation"
backend: badger
steps:
  - init: admin
  - sender: addr1
    add: {topic: lol, message: wut}
    expect:
      attributes: {message_id: "0"}
  - query: by_id
    id: 0
    expect: {ids: [0]}
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	assert.Equal(t, store.KindBadger, scenario.BackendKind())
	require.Len(t, scenario.Steps, 3)

	assert.Equal(t, StepInit, scenario.Steps[0].Kind())
	assert.Equal(t, "admin", scenario.Steps[0].Init)

	add := scenario.Steps[1]
	assert.Equal(t, StepAdd, add.Kind())
	assert.Equal(t, "addr1", add.Sender)
	assert.Equal(t, "lol", add.Add.Topic)
	assert.Equal(t, "wut", add.Add.Message)
	assert.Equal(t, map[string]string{"message_id": "0"}, add.Expect.Attributes)

	query := scenario.Steps[2]
	assert.Equal(t, StepQuery, query.Kind())
	require.NotNil(t, query.ID)
	assert.Equal(t, uint64(0), *query.ID)
	require.NotNil(t, query.Expect.IDs)
	assert.Equal(t, []uint64{0}, *query.Expect.IDs)
}

func TestLoadScenario_DefaultBackend(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: s
description: d
steps:
  - init: admin
`))
	require.NoError(t, err)
	assert.Equal(t, store.KindSQLite, scenario.BackendKind())
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: s
description: d
steps:
  - init: admin
    expects: {error: NOT_FOUND}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: d
steps: [{init: admin}]
`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			content: `
name: s
steps: [{init: admin}]
`,
			wantErr: "description is required",
		},
		{
			name: "no steps",
			content: `
name: s
description: d
steps: []
`,
			wantErr: "steps list is required",
		},
		{
			name: "unknown backend",
			content: `
name: s
description: d
backend: leveldb
steps: [{init: admin}]
`,
			wantErr: "unknown backend",
		},
		{
			name: "step without request",
			content: `
name: s
description: d
steps: [{sender: addr1}]
`,
			wantErr: "exactly one of init, add, execute, query",
		},
		{
			name: "step with two requests",
			content: `
name: s
description: d
steps:
  - init: admin
    query: all
`,
			wantErr: "exactly one of init, add, execute, query",
		},
		{
			name: "add without sender",
			content: `
name: s
description: d
steps:
  - add: {topic: t, message: m}
`,
			wantErr: "sender is required for add",
		},
		{
			name: "unknown query",
			content: `
name: s
description: d
steps: [{query: by_owner}]
`,
			wantErr: `unknown query "by_owner"`,
		},
		{
			name: "by_id without id",
			content: `
name: s
description: d
steps: [{query: by_id}]
`,
			wantErr: "id is required for by_id",
		},
		{
			name: "error combined with ids",
			content: `
name: s
description: d
steps:
  - query: all
    expect: {error: NOT_FOUND, ids: []}
`,
			wantErr: "error cannot be combined",
		},
		{
			name: "current_id on listing",
			content: `
name: s
description: d
steps:
  - query: all
    expect: {current_id: 0}
`,
			wantErr: "current_id only applies",
		},
		{
			name: "ids on transition",
			content: `
name: s
description: d
steps:
  - init: admin
    expect: {ids: [0]}
`,
			wantErr: "ids only apply to listing queries",
		},
		{
			name: "attributes on query",
			content: `
name: s
description: d
steps:
  - query: all
    expect: {attributes: {action: x}}
`,
			wantErr: "attributes are not produced by queries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStep_Kind(t *testing.T) {
	assert.Equal(t, StepInit, Step{Init: "a"}.Kind())
	assert.Equal(t, StepAdd, Step{Add: &AddStep{}}.Kind())
	assert.Equal(t, StepExecute, Step{Execute: "{}"}.Kind())
	assert.Equal(t, StepQuery, Step{Query: QueryAll}.Kind())
	assert.Equal(t, "", Step{}.Kind())
	assert.Equal(t, "", Step{Init: "a", Execute: "{}"}.Kind())
}
