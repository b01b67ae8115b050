package plot

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// Renderer writes a projection in one output format.
type Renderer interface {
	// Name returns the format name used on the command line
	Name() string

	// Extension returns the default file extension, including the dot
	Extension() string

	// Render writes the projection to w
	Render(w io.Writer, p *Projection) error
}

// Registry manages available renderers
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]func() Renderer
}

// NewRegistry creates a new renderer registry
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]func() Renderer),
	}
}

// Register adds a renderer to the registry
func (r *Registry) Register(name string, factory func() Renderer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("renderer %s already registered", name)
	}

	r.renderers[name] = factory
	return nil
}

// Get returns a new instance of the requested renderer
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.renderers[name]
	if !exists {
		return nil, fmt.Errorf("renderer %s not found", name)
	}

	return factory(), nil
}

// List returns all registered renderer names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry holds the built-in renderers
var DefaultRegistry = NewRegistry()

func init() {
	_ = DefaultRegistry.Register("html", func() Renderer { return &HTMLRenderer{} })
	_ = DefaultRegistry.Register("png", func() Renderer { return &PNGRenderer{} })
	_ = DefaultRegistry.Register("table", func() Renderer { return &TableRenderer{} })
}
