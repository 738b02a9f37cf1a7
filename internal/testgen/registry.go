package testgen

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDuplicateOutput is returned when two suites of one generation run target
// the same output file.
var ErrDuplicateOutput = errors.New("same test file already generated in current run")

// Registry records the output files produced by one generation run. It is
// safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{paths: make(map[string]struct{})}
}

// Register claims path for the current run. Claiming the same path twice
// fails with ErrDuplicateOutput.
func (r *Registry) Register(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.paths[path]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateOutput, path)
	}
	r.paths[path] = struct{}{}
	return nil
}

// Paths returns the registered paths in sorted order.
func (r *Registry) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	paths := make([]string, 0, len(r.paths))
	for p := range r.paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
