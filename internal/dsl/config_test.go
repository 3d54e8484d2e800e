package dsl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/lamb/internal/config"
)

const sampleSignature = `
default_cost: 50
prims:
  - name: "+"
    type: "int -> int -> int"
    cost: 10
  - name: map
    type: "(t0 -> t1) -> (list t0) -> (list t1)"
  - name: "[]"
    type: "(list t0)"
`

func TestLoad(t *testing.T) {
	tbl, err := Load([]byte(sampleSignature))
	require.NoError(t, err)

	assert.Equal(t, 50, tbl.DefaultCost())
	assert.Equal(t, 10, tbl.CostOfPrim("+"))
	assert.Equal(t, 50, tbl.CostOfPrim("map")) // no cost given, default applies
	assert.Equal(t, 50, tbl.CostOfPrim("unlisted"))

	tp, ok := tbl.TypeOfPrim("map")
	require.True(t, ok)
	assert.Equal(t, "((t0 -> t1) -> (list t0) -> (list t1))", tp.String())

	tp, ok = tbl.TypeOfPrim("[]")
	require.True(t, ok)
	assert.Equal(t, "(list t0)", tp.String())
}

func TestLoadDefaults(t *testing.T) {
	tbl, err := Load([]byte("prims:\n  - name: one\n    type: int\n"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPrimCost, tbl.DefaultCost())
	assert.Equal(t, config.DefaultPrimCost, tbl.CostOfPrim("one"))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "prims: ["},
		{"empty name", "prims:\n  - name: \"\"\n    type: int\n"},
		{"bad type", "prims:\n  - name: f\n    type: \"(int\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultSignatureFile)
	require.NoError(t, os.WriteFile(path, []byte(sampleSignature), 0o644))

	tbl, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 10, tbl.CostOfPrim("+"))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
