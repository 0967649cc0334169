package droplet

import (
	"fmt"

	"github.com/droplang/droplet/value"
)

// FilterFunc is the signature for filter functions. It receives the
// input value and the ordered argument list and returns a new value or
// an error. Filters never mutate their input.
//
// Filters index their arguments defensively: a missing required
// argument is seen as value.Nil(), and extra trailing arguments are
// silently ignored unless a filter documents otherwise.
type FilterFunc func(val value.Value, args []value.Value) (value.Value, error)

// Environment holds the filter table consulted during rendering.
//
// The table is populated once, before rendering starts, and is
// read-only afterwards: concurrent ApplyFilter calls need no
// synchronization, but AddFilter must not race with them.
type Environment struct {
	filters map[string]FilterFunc
}

// NewEnvironment creates an environment with the built-in filters
// registered.
func NewEnvironment() *Environment {
	env := &Environment{
		filters: make(map[string]FilterFunc),
	}
	registerDefaultFilters(env)
	return env
}

// EmptyEnvironment creates an environment with no filters.
func EmptyEnvironment() *Environment {
	return &Environment{
		filters: make(map[string]FilterFunc),
	}
}

// AddFilter registers a filter function. Registration happens during
// environment setup only.
func (e *Environment) AddFilter(name string, f FilterFunc) {
	e.filters[name] = f
}

// ApplyFilter looks up a filter by exact name and applies it to the
// input and argument list. An unknown name yields an ErrUnknownFilter
// error naming the filter.
func (e *Environment) ApplyFilter(name string, val value.Value, args []value.Value) (value.Value, error) {
	f, ok := e.filters[name]
	if !ok {
		return value.Nil(), NewError(ErrUnknownFilter, fmt.Sprintf("no filter named %q", name)).WithFilter(name)
	}
	return f(val, args)
}

// HasFilter returns true if a filter with the given name is registered.
func (e *Environment) HasFilter(name string) bool {
	_, ok := e.filters[name]
	return ok
}

// argOrNil returns the i-th argument, or value.Nil() when the caller
// supplied fewer. Whether nil is acceptable is each filter's decision.
func argOrNil(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}
	return value.Nil()
}
