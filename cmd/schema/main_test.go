package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var schema struct {
		Title string                     `json:"title"`
		Defs  map[string]json.RawMessage `json:"$defs"`
	}
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, "anime-notifier configuration", schema.Title)
	assert.Contains(t, schema.Defs, "Config")
	assert.Contains(t, schema.Defs, "WatchEntry")
}

func TestWrite_BadPath(t *testing.T) {
	err := write(filepath.Join(t.TempDir(), "missing", "dir", "schema.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write schema file")
}
