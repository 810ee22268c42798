// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name>, is constructed
// in main with its dependencies, and registered via component.Register().
// main mounts every component's Routes() under its Name(): public
// components at /<name>, protected ones under the admin API at
// /admin/api/<name>.  Protected() is what the access guard sees as the
// administrative surface.

package component

import (
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Component contract.
//
// Routes() should mount the component's endpoints relative to its own
// root, e.g.:
//
//	r := chi.NewRouter()
//	r.Get("/", c.handleList)
//	r.Post("/select", c.handleSelect)
//	return r
type Component interface {
	Name() string
	Protected() bool
	Routes() chi.Router
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from main once per constructed component.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component, sorted by name so mounting is
// deterministic.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
