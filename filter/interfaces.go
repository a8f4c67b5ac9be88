package filter

import (
	"github.com/s0up4200/tryfi/model"
)

// Filter defines the basic interface for pet filters
type Filter interface {
	// Evaluate checks if a pet matches the filter criteria
	Evaluate(pet *model.Pet) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Match is Evaluate with the runtime error surfaced
	Match(pet *model.Pet) (bool, error)

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}
