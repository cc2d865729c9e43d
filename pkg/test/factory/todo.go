package factory

import (
	fab "github.com/Goldziher/fabricator"
)

// NewTodo builds a T with generated field values; customData overrides them
// by field name.
func NewTodo[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	if len(customData) > 0 {
		return instance.Build(customData...)
	}

	return instance.Build()
}
