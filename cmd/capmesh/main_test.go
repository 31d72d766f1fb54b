package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/katalvlaran/capmesh/router"
)

const board = `{
  "bounds": {"min_x": 0, "min_y": 0, "max_x": 10, "max_y": 10},
  "obstacles": [{"rect": {"min_x": 3, "min_y": 3, "max_x": 7, "max_y": 7}, "layers": ["top", "bottom"]}],
  "connections": [
    {"name": "conn1", "points": [{"x": 1, "y": 1, "layer": "top"}, {"x": 9, "y": 9, "layer": "top"}]},
    {"name": "conn2", "points": [{"x": 1, "y": 9, "layer": "top"}, {"x": 9, "y": 1, "layer": "top"}]}
  ]
}`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "board.json", board)
	cfg := writeFile(t, dir, "tuning.json", `{"max_depth": 5, "cost_model": "size-biased"}`)
	db := filepath.Join(dir, "cache.db")
	out := filepath.Join(dir, "result.json")

	// The second run is served from the SQLite cache.
	for i := 0; i < 2; i++ {
		require.NoError(t, run(context.Background(), zaptest.NewLogger(t), in, cfg, db, out))
	}

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	var res router.Result
	require.NoError(t, json.Unmarshal(raw, &res))
	require.Len(t, res.Paths, 2)
	assert.Equal(t, "conn1", res.Paths[0].ConnectionName)
	assert.Equal(t, "conn2", res.Paths[1].ConnectionName)
	assert.NotEmpty(t, res.Nodes)
	assert.NotEmpty(t, res.Edges)
}

func TestReadInput_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := readInput(filepath.Join(dir, "missing.json"))
	require.Error(t, err)

	_, err = readInput(writeFile(t, dir, "extra.json", `{"bounds": {}, "vias": []}`))
	require.Error(t, err)

	_, err = readInput(writeFile(t, dir, "broken.json", `{"bounds":`))
	require.Error(t, err)
}

func TestRun_BadTuning(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "board.json", board)
	cfg := writeFile(t, dir, "tuning.json", `{"gate": "sticky"}`)
	err := run(context.Background(), zaptest.NewLogger(t), in, cfg, "", filepath.Join(dir, "out.json"))
	require.Error(t, err)
}
