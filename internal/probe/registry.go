package probe

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// InitFunc initializes a registered module. A non-nil error means the
// module is present but broken.
type InitFunc func(ctx context.Context) error

// Registry resolves modules that were linked into the binary and
// registered by name, the same way database/sql drivers register
// themselves from init functions.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*module
}

type module struct {
	init InitFunc
	once sync.Once
	err  error
}

// DefaultRegistry is the process-wide registry used by Register.
var DefaultRegistry = NewRegistry()

// Register adds a module to DefaultRegistry.
func Register(name string, init InitFunc) {
	DefaultRegistry.Register(name, init)
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: map[string]*module{}}
}

// Register adds a module. It panics if name is empty or already
// registered, since that is a programming error.
func (r *Registry) Register(name string, init InitFunc) {
	if name == "" {
		panic("probe: Register with empty name")
	}
	if init == nil {
		init = func(context.Context) error { return nil }
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.modules[name]; dup {
		panic("probe: Register called twice for module " + name)
	}
	r.modules[name] = &module{init: init}
}

// Names returns the registered module names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve runs the module's init function the first time it is resolved
// and returns the cached result afterwards.
func (r *Registry) Resolve(ctx context.Context, id string) error {
	r.mu.RLock()
	m, ok := r.modules[id]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%q is not registered: %w", id, ErrNotFound)
	}

	m.once.Do(func() {
		m.err = m.init(ctx)
	})
	if m.err != nil {
		return fmt.Errorf("initializing %q: %w", id, m.err)
	}
	return nil
}
