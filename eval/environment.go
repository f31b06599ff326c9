package eval

import (
	"sort"

	"github.com/pontaoski/wrig/errors"
	"github.com/pontaoski/wrig/types"
)

// Environment is a single flat namespace of variable bindings.
type Environment struct {
	values map[string]types.Value
}

func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]types.Value)}
}

// Define inserts or overwrites a binding.
func (e *Environment) Define(name string, value types.Value) {
	plog.Debugf("define %s = %#v", name, value)
	e.values[name] = value
}

func (e *Environment) Get(name string) (types.Value, error) {
	if v, ok := e.values[name]; ok {
		return v, nil
	}
	return types.Value{}, errors.UndefinedVariable{Name: name}
}

func (e *Environment) Len() int {
	return len(e.values)
}

// Names returns the bound names in sorted order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for k := range e.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
