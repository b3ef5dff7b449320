package main

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdudkov/tilecull/pkg/geometry"
	"github.com/kdudkov/tilecull/pkg/mapper"
	"github.com/kdudkov/tilecull/pkg/model"
)

var corners = []geometry.GeoPoint{
	{Lat: 55.7355, Lng: 37.5900},
	{Lat: 55.7270, Lng: 37.5900},
	{Lat: 55.7270, Lng: 37.6100},
	{Lat: 55.7355, Lng: 37.6100},
}

func shapes(t *testing.T, keys ...string) []model.Shape {
	var res []model.Shape

	for _, k := range keys {
		f, err := model.NewFeature(k, k, corners, mapper.NewWebMercator())
		require.NoError(t, err)
		res = append(res, f)
	}

	return res
}

func TestFeaturesReplace(t *testing.T) {
	h := NewFeatures()

	h.Replace(shapes(t, "c", "a", "b"))
	require.Len(t, h.List(), 3)
	assert.Equal(t, "a", h.List()[0].GetKey())
	assert.Equal(t, "c", h.List()[2].GetKey())

	h.Replace(shapes(t, "b", "d"))

	var keys []string
	for _, s := range h.List() {
		keys = append(keys, s.GetKey())
	}
	assert.Equal(t, []string{"b", "d"}, keys)

	_, ok := h.Get("a")
	assert.False(t, ok)

	s, ok := h.Get("d")
	require.True(t, ok)
	assert.Equal(t, "d", s.GetName())

	h.Add(nil)
	h.Clear()
	assert.Empty(t, h.List())
}

func TestFeaturesReplaceConcurrent(t *testing.T) {
	h := NewFeatures()
	old, next := shapes(t, "a", "b"), shapes(t, "c", "d")
	h.Replace(old)

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for i := 0; i < 500; i++ {
			if i%2 == 0 {
				h.Replace(next)
			} else {
				h.Replace(old)
			}
		}
	}()

	for i := 0; i < 500; i++ {
		var keys []string
		for _, s := range h.List() {
			keys = append(keys, s.GetKey())
		}

		if !assert.Contains(t, [][]string{{"a", "b"}, {"c", "d"}}, keys) {
			break
		}
	}

	wg.Wait()
}
