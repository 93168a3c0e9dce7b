package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCommitIsMerge(t *testing.T) {
	tests := []struct {
		name    string
		parents []string
		want    bool
	}{
		{"root commit", nil, false},
		{"single parent", []string{"aaa"}, false},
		{"merge", []string{"aaa", "bbb"}, true},
		{"octopus", []string{"aaa", "bbb", "ccc"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Commit{Parents: tt.parents}.IsMerge())
		})
	}
}

func TestEnrichedFileRecordLinesAddDel(t *testing.T) {
	r := EnrichedFileRecord{FileNumstat: FileNumstat{Path: "a.go", LinesAdded: 7, LinesDeleted: 3}}
	assert.Equal(t, 10, r.LinesAddDel())
}

func TestEnrichedFileRecordFlattensNumstat(t *testing.T) {
	r := EnrichedFileRecord{FileNumstat: FileNumstat{Path: "a.go", LinesAdded: 1}, HashShort: "abc"}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	var asMap map[string]any
	require.NoError(t, json.Unmarshal(data, &asMap))
	assert.Equal(t, "a.go", asMap["path"])
	assert.NotContains(t, asMap, "FileNumstat")

	out, err := yaml.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), "path: a.go")
	assert.Contains(t, string(out), "hash_short: abc")
}

func TestReportKindsAreValid(t *testing.T) {
	assert.Len(t, ValidReportKinds, len(AllReportKinds))
	for _, kind := range AllReportKinds {
		_, ok := ValidReportKinds[kind]
		assert.True(t, ok, "kind %s", kind)
	}
}
