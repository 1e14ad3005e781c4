package loader

import (
	"fmt"
	"sort"
)

// Constructor creates a Loader from source settings.
type Constructor func(cfg Config) (Loader, error)

var registry = map[string]Constructor{}

// Register adds a loader constructor under the given source name.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Get returns the loader constructor for the given source name.
func Get(name string) (Constructor, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown catalog source: %s", name)
	}
	return ctor, nil
}

// Sources returns the names of all registered sources, sorted.
func Sources() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
