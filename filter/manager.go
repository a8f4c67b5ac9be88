package filter

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/s0up4200/tryfi/model"
)

// Manager holds named filter presets and applies them to pets
type Manager struct {
	compiler Compiler
	presets  map[string]CompiledFilter
	mu       sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		compiler: NewExprCompiler(),
		presets:  make(map[string]CompiledFilter),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RegisterPreset registers a new preset or replaces an existing one
func (m *Manager) RegisterPreset(name, expression string) error {
	filter, err := m.compiler.Compile(expression)
	if err != nil {
		return fmt.Errorf("failed to compile preset '%s': %w", name, err)
	}

	m.mu.Lock()
	m.presets[name] = filter
	m.mu.Unlock()

	return nil
}

// RegisterPresets registers all presets or none of them
func (m *Manager) RegisterPresets(presets map[string]string) error {
	compiled := make(map[string]CompiledFilter, len(presets))

	for name, expression := range presets {
		filter, err := m.compiler.Compile(expression)
		if err != nil {
			return fmt.Errorf("failed to compile preset '%s': %w", name, err)
		}
		compiled[name] = filter
	}

	m.mu.Lock()
	maps.Copy(m.presets, compiled)
	m.mu.Unlock()

	return nil
}

// Preset returns a compiled preset by name
func (m *Manager) Preset(name string) (CompiledFilter, bool) {
	m.mu.RLock()
	filter, ok := m.presets[name]
	m.mu.RUnlock()
	return filter, ok
}

// Presets returns the registered preset names, sorted
func (m *Manager) Presets() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.presets))
}

// ApplyPreset keeps the pets matching the named preset
func (m *Manager) ApplyPreset(name string, pets []*model.Pet) ([]*model.Pet, error) {
	filter, ok := m.Preset(name)
	if !ok {
		return nil, &UnknownPresetError{Name: name}
	}
	return Apply(filter, pets)
}

// ApplyExpression compiles the expression and keeps the matching pets
func (m *Manager) ApplyExpression(expression string, pets []*model.Pet) ([]*model.Pet, error) {
	filter, err := m.compiler.Compile(expression)
	if err != nil {
		return nil, err
	}
	return Apply(filter, pets)
}

// Apply keeps the pets matching the filter, in order. It stops at the first
// evaluation error.
func Apply(filter CompiledFilter, pets []*model.Pet) ([]*model.Pet, error) {
	matches := make([]*model.Pet, 0, len(pets))
	for _, pet := range pets {
		ok, err := filter.Match(pet)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, pet)
		}
	}
	return matches, nil
}
