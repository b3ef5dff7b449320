package model

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/kdudkov/tilecull/pkg/geometry"
)

type FeatureDescription struct {
	Name    string                `yaml:"name"`
	Key     string                `yaml:"key"`
	MinZoom int                   `yaml:"minZoom"`
	MaxZoom *int                  `yaml:"maxZoom"`
	Corners []geometry.GeoPoint   `yaml:"corners"`
	Parts   [][]geometry.GeoPoint `yaml:"parts"`
}

func NewShape(d *FeatureDescription, p geometry.Projection) (Shape, error) {
	if d.Key == "" {
		return nil, fmt.Errorf("feature %q has no key", d.Name)
	}

	minZoom, maxZoom := d.MinZoom, MaxZoom
	if d.MaxZoom != nil {
		maxZoom = *d.MaxZoom
	}

	if minZoom < 0 || maxZoom > MaxZoom || minZoom > maxZoom {
		return nil, fmt.Errorf("feature %s: invalid zoom range %d:%d", d.Key, minZoom, maxZoom)
	}

	name := d.Name
	if name == "" {
		name = d.Key
	}

	switch {
	case len(d.Corners) > 0 && len(d.Parts) > 0:
		return nil, fmt.Errorf("feature %s: both corners and parts are set", d.Key)
	case len(d.Corners) > 0:
		f, err := NewFeature(d.Key, name, d.Corners, p)
		if err != nil {
			return nil, err
		}

		f.SetZoom(minZoom, maxZoom)

		return f, nil
	case len(d.Parts) > 0:
		parts := make([]*Feature, 0, len(d.Parts))

		for i, c := range d.Parts {
			f, err := NewFeature(d.Key+"/"+strconv.Itoa(i), name, c, p)
			if err != nil {
				return nil, err
			}

			f.SetZoom(minZoom, maxZoom)
			parts = append(parts, f)
		}

		return NewGroup(d.Key, name, parts), nil
	default:
		return nil, fmt.Errorf("feature %s has no corners", d.Key)
	}
}

func ParseFeatures(data []byte, p geometry.Projection) ([]Shape, error) {
	var res []*FeatureDescription

	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, errors.Wrap(err, "invalid features file")
	}

	shapes := make([]Shape, 0, len(res))
	keys := make(map[string]bool, len(res))

	for _, d := range res {
		if keys[d.Key] {
			return nil, fmt.Errorf("duplicate feature key %s", d.Key)
		}

		keys[d.Key] = true

		s, err := NewShape(d, p)
		if err != nil {
			return nil, err
		}

		shapes = append(shapes, s)
	}

	return shapes, nil
}

func LoadFeatures(path string, p geometry.Projection) ([]Shape, error) {
	d, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	shapes, err := ParseFeatures(d, p)

	return shapes, errors.Wrapf(err, "load %s", path)
}
