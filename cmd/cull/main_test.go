package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kdudkov/tilecull/pkg/geometry"
	"github.com/kdudkov/tilecull/pkg/mapper"
	"github.com/kdudkov/tilecull/pkg/model"
)

const featuresYml = `
- key: park
  minZoom: 10
  corners:
    - {lat: 55.7355, lng: 37.5900}
    - {lat: 55.7270, lng: 37.5900}
    - {lat: 55.7270, lng: 37.6100}
    - {lat: 55.7355, lng: 37.6100}
`

func TestRun(t *testing.T) {
	dir := t.TempDir()

	shapes, err := model.ParseFeatures([]byte(featuresYml), mapper.NewWebMercator())
	require.NoError(t, err)

	app := NewApp(zap.NewNop().Sugar(), shapes, filepath.Join(dir, "out.sqlite"), 16)
	app.tilesFilename = filepath.Join(dir, "tiles.txt")
	require.NoError(t, os.WriteFile(app.tilesFilename, []byte("10/618/320\n\n3/4/2"), 0644))

	require.NoError(t, app.Run())

	s, err := model.OpenStore(app.dbFilename)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "16", s.Meta()["maxzoom"])
	assert.Equal(t, "3", s.Meta()["minzoom"])
	assert.Equal(t, "1", s.Meta()["features"])

	hits, err := s.At(model.Tile{X: 39612, Y: 20494, Z: 16})
	require.NoError(t, err)
	assert.Equal(t, []model.StoredHit{{Key: "park", Overlap: geometry.Inside, Tile: model.Tile{X: 19806, Y: 10247, Z: 15}}}, hits)

	hits, err = s.At(model.Tile{X: 0, Y: 0, Z: 10})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestRoots(t *testing.T) {
	app := NewApp(zap.NewNop().Sugar(), nil, "", 5)

	roots, err := app.roots()
	require.NoError(t, err)
	assert.Equal(t, []model.Tile{{}}, roots)

	app.tilesFilename = filepath.Join(t.TempDir(), "tiles.txt")
	require.NoError(t, os.WriteFile(app.tilesFilename, []byte("1/0/0\nbad\n"), 0644))

	_, err = app.roots()
	assert.ErrorContains(t, err, "invalid tile")
}
