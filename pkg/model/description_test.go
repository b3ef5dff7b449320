package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdudkov/tilecull/pkg/geometry"
	"github.com/kdudkov/tilecull/pkg/mapper"
)

const featuresYml = `
- key: park
  name: Gorky park
  minZoom: 10
  maxZoom: 18
  corners:
    - {lat: 55.7355, lng: 37.5900}
    - {lat: 55.7270, lng: 37.5900}
    - {lat: 55.7270, lng: 37.6100}
    - {lat: 55.7355, lng: 37.6100}
- key: campus
  parts:
    - - {lat: 1, lng: 1}
      - {lat: 0, lng: 1}
      - {lat: 0, lng: 2}
      - {lat: 1, lng: 2}
    - - {lat: 3, lng: 3}
      - {lat: 2, lng: 3}
      - {lat: 2, lng: 4}
      - {lat: 3, lng: 4}
`

func TestParseFeatures(t *testing.T) {
	shapes, err := ParseFeatures([]byte(featuresYml), mapper.NewWebMercator())
	require.NoError(t, err)
	require.Len(t, shapes, 2)

	park := shapes[0]
	assert.Equal(t, "park", park.GetKey())
	assert.Equal(t, "Gorky park", park.GetName())
	assert.Equal(t, 10, park.GetMinZoom())
	assert.Equal(t, 18, park.GetMaxZoom())
	assert.True(t, Visible(park, 12))
	assert.False(t, Visible(park, 9))

	// z16 tile 39612/20494 lies in the middle of the park
	assert.Equal(t, geometry.Inside, park.Classify(Tile{X: 39612, Y: 20494, Z: 16}))
	assert.Equal(t, geometry.Outside, park.Classify(Tile{X: 39615, Y: 20489, Z: 16}))
	assert.Equal(t, geometry.Intersecting, park.Classify(Tile{X: 39611, Y: 20494, Z: 16}))

	campus, ok := shapes[1].(*Group)
	require.True(t, ok)
	assert.Equal(t, "campus", campus.GetName())
	assert.Equal(t, MaxZoom, campus.GetMaxZoom())
	require.Len(t, campus.Parts(), 2)
	assert.Equal(t, "campus/1", campus.Parts()[1].GetKey())
}

func TestParseFeaturesErrors(t *testing.T) {
	tests := []struct {
		name string
		yml  string
		err  string
	}{
		{"no key", "- name: x\n  corners: [{lat: 1, lng: 1}]", "has no key"},
		{"no corners", "- key: x", "has no corners"},
		{"short", "- key: x\n  corners: [{lat: 1, lng: 1}]", "need 4 corners"},
		{"zoom", "- key: x\n  minZoom: 5\n  maxZoom: 3\n  corners: [{lat: 1, lng: 1}]", "invalid zoom range"},
		{"duplicate", "- key: x\n  corners: [{lat: 1, lng: 0}, {lat: 0, lng: 0}, {lat: 0, lng: 1}, {lat: 1, lng: 1}]\n- key: x", "duplicate"},
		{"both", "- key: x\n  corners: [{lat: 1, lng: 0}]\n  parts: [[{lat: 1, lng: 0}]]", "both corners and parts"},
		{"yaml", "key: [", "invalid features file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFeatures([]byte(tt.yml), mapper.NewWebMercator())
			assert.ErrorContains(t, err, tt.err)
		})
	}
}

func TestParseFeaturesZoom(t *testing.T) {
	yml := `
- key: world
  maxZoom: 0
  corners: [{lat: 1, lng: 0}, {lat: 0, lng: 0}, {lat: 0, lng: 1}, {lat: 1, lng: 1}]
- key: any
  minZoom: 3
  corners: [{lat: 1, lng: 0}, {lat: 0, lng: 0}, {lat: 0, lng: 1}, {lat: 1, lng: 1}]
`
	shapes, err := ParseFeatures([]byte(yml), mapper.NewWebMercator())
	require.NoError(t, err)
	require.Len(t, shapes, 2)

	assert.Equal(t, 0, shapes[0].GetMaxZoom())
	assert.True(t, Visible(shapes[0], 0))
	assert.False(t, Visible(shapes[0], 1))

	assert.Equal(t, 3, shapes[1].GetMinZoom())
	assert.Equal(t, MaxZoom, shapes[1].GetMaxZoom())

	_, err = ParseFeatures([]byte("- key: x\n  maxZoom: 31\n  corners: [{lat: 1, lng: 1}]"), mapper.NewWebMercator())
	assert.ErrorContains(t, err, "invalid zoom range")
}

func TestParseFeaturesClockwise(t *testing.T) {
	yml := "- key: x\n  corners: [{lat: 0, lng: 0}, {lat: 1, lng: 0}, {lat: 1, lng: 1}, {lat: 0, lng: 1}]"

	shapes, err := ParseFeatures([]byte(yml), mapper.NewWebMercator())
	require.NoError(t, err)
	require.Len(t, shapes, 1)
	assert.ErrorContains(t, CheckShape(shapes[0]), "clockwise")
}

func TestLoadFeatures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.yml")
	require.NoError(t, os.WriteFile(path, []byte(featuresYml), 0644))

	shapes, err := LoadFeatures(path, mapper.NewWebMercator())
	require.NoError(t, err)
	assert.Len(t, shapes, 2)

	_, err = LoadFeatures(filepath.Join(t.TempDir(), "none.yml"), mapper.NewWebMercator())
	assert.Error(t, err)
}
