package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRoute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "route.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"latitude": 41.0082, "longitude": 28.9784, "accuracy": 10},
		{"latitude": 41.0091, "longitude": 28.9812, "accuracy": 8, "speed": 12.5}
	]`), 0o600))

	route, err := LoadRoute(path)
	require.NoError(t, err)
	require.Len(t, route, 2)

	assert.InDelta(t, 41.0082, route[0].Latitude, 1e-9)
	assert.Nil(t, route[0].Speed)
	require.NotNil(t, route[1].Speed)
	assert.InDelta(t, 12.5, *route[1].Speed, 1e-9)
}

func TestLoadRoute_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "route.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))

	_, err := LoadRoute(path)
	assert.Error(t, err)
}

func TestLoadRoute_MissingFile(t *testing.T) {
	_, err := LoadRoute(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadRoute_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "route.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	_, err := LoadRoute(path)
	assert.Error(t, err)
}
