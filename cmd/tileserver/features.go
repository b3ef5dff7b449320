package main

import (
	"cmp"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/kdudkov/tilecull/pkg/model"
)

func NewFeatures() *Features {
	h := &Features{}
	h.data.Store(new(sync.Map))

	return h
}

type Features struct {
	data atomic.Pointer[sync.Map]
}

func (h *Features) Clear() {
	h.data.Store(new(sync.Map))
}

func (h *Features) Get(key string) (model.Shape, bool) {
	if v, ok := h.data.Load().Load(key); ok {
		if n, ok1 := v.(model.Shape); ok1 {
			return n, true
		}
	}

	return nil, false
}

func (h *Features) Add(s model.Shape) {
	if s == nil {
		return
	}

	h.data.Load().Store(s.GetKey(), s)
}

// Replace swaps the whole set at once, readers see either the old set or the
// new one.
func (h *Features) Replace(shapes []model.Shape) {
	m := new(sync.Map)

	for _, s := range shapes {
		if s != nil {
			m.Store(s.GetKey(), s)
		}
	}

	h.data.Store(m)
}

func (h *Features) All(f func(s model.Shape) bool) {
	h.data.Load().Range(func(_, value any) bool {
		if s, ok := value.(model.Shape); ok {
			return f(s)
		}

		return true
	})
}

// List returns all shapes ordered by key.
func (h *Features) List() []model.Shape {
	var res []model.Shape

	h.All(func(s model.Shape) bool {
		res = append(res, s)
		return true
	})

	slices.SortFunc(res, func(a, b model.Shape) int {
		return cmp.Compare(a.GetKey(), b.GetKey())
	})

	return res
}
