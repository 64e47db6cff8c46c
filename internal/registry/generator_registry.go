package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mmrzaf/datadash/internal/generators"
)

var ErrUnknownKind = errors.New("unknown dataset kind")

type GeneratorRegistry struct {
	mu         sync.RWMutex
	generators map[string]generators.Generator
}

func NewGeneratorRegistry() *GeneratorRegistry {
	return &GeneratorRegistry{
		generators: make(map[string]generators.Generator),
	}
}

func (r *GeneratorRegistry) Register(kind string, gen generators.Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[kind] = gen
}

func (r *GeneratorRegistry) Get(kind string) (generators.Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.generators[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return gen, nil
}

// List returns the registered kinds in lexical order.
func (r *GeneratorRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.generators))
	for kind := range r.generators {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

func DefaultGeneratorRegistry() *GeneratorRegistry {
	r := NewGeneratorRegistry()
	r.Register("sine", &generators.SineGenerator{})
	r.Register("timeseries", &generators.TimeSeriesGenerator{})
	r.Register("scatter", &generators.ScatterGenerator{})
	r.Register("categorical", &generators.CategoricalGenerator{})
	r.Register("distribution", &generators.DistributionGenerator{})
	r.Register("correlation", &generators.CorrelationGenerator{})
	r.Register("realtime", &generators.RealtimeGenerator{})
	r.Register("waves", &generators.WavesGenerator{})
	r.Register("surface", &generators.SurfaceGenerator{})
	return r
}
