package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/delete_and_validation.yaml")
	require.NoError(t, err)

	assert.Equal(t, "delete_and_validation", s.Name)
	assert.True(t, s.StrictReferences())
	assert.Len(t, s.Setup, 4)
	assert.Len(t, s.Flow, 7)
	assert.Equal(t, "blank", s.Flow[2].As)
	assert.Equal(t, []string{"D", "A"}, s.Flow[5].Order)
	assert.Equal(t, "ORDER_MISMATCH", s.Flow[5].ExpectError)
}

func TestLoadScenario_StrictFalse(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/lenient_references.yaml")
	require.NoError(t, err)
	assert.False(t, s.StrictReferences())
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: typo
description: "typo in assertions key"
flow:
  - op: delete
    ticket: A
assertion:
  - type: dense
`), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\nflow: [{op: delete, ticket: A}]\nassertions: [{type: dense}]",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nflow: [{op: delete, ticket: A}]\nassertions: [{type: dense}]",
			wantErr: "description is required",
		},
		{
			name:    "empty flow",
			yaml:    "name: n\ndescription: d\nassertions: [{type: dense}]",
			wantErr: "flow list is required",
		},
		{
			name:    "no assertions",
			yaml:    "name: n\ndescription: d\nflow: [{op: delete, ticket: A}]",
			wantErr: "assertions list is required",
		},
		{
			name:    "unknown op",
			yaml:    "name: n\ndescription: d\nflow: [{op: archive}]\nassertions: [{type: dense}]",
			wantErr: `unknown op "archive"`,
		},
		{
			name:    "add without title",
			yaml:    "name: n\ndescription: d\nflow: [{op: add, list: todo}]\nassertions: [{type: dense}]",
			wantErr: "title is required for add",
		},
		{
			name:    "move without index",
			yaml:    "name: n\ndescription: d\nflow: [{op: move, ticket: A, to: done}]\nassertions: [{type: dense}]",
			wantErr: "move needs ticket, to and index",
		},
		{
			name:    "move with drop and ticket",
			yaml:    "name: n\ndescription: d\nflow: [{op: move, ticket: A, drop: {source_list: todo, target_list: done}}]\nassertions: [{type: dense}]",
			wantErr: "drop excludes",
		},
		{
			name:    "expect_error in setup",
			yaml:    "name: n\ndescription: d\nsetup: [{op: delete, ticket: A, expect_error: X}]\nflow: [{op: delete, ticket: A}]\nassertions: [{type: dense}]",
			wantErr: "not allowed in setup",
		},
		{
			name:    "list_count without count",
			yaml:    "name: n\ndescription: d\nflow: [{op: delete, ticket: A}]\nassertions: [{type: list_count, list: todo}]",
			wantErr: "non-negative count is required",
		},
		{
			name:    "unknown assertion",
			yaml:    "name: n\ndescription: d\nflow: [{op: delete, ticket: A}]\nassertions: [{type: trace_order}]",
			wantErr: `unknown assertion type "trace_order"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
