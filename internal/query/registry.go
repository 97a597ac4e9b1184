package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// FieldNotFoundError reports an order key naming a field the record type does not expose.
type FieldNotFoundError struct {
	Field string
}

func (e FieldNotFoundError) Error() string {
	return fmt.Sprintf("unknown sort field %q", e.Field)
}

// Field is a sortable property of T: its storage column and a typed comparator.
type Field[T any] struct {
	Name    string
	Column  string
	Compare func(a, b T) int
}

// Registry maps lowercase field names to typed accessors. It is built once
// per record type and only read afterwards.
type Registry[T any] struct {
	fields map[string]Field[T]
	names  []string
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{fields: map[string]Field[T]{}}
}

// Add registers a field. An empty column marks the field as in-memory only.
func (r *Registry[T]) Add(name, column string, compare func(a, b T) int) *Registry[T] {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || compare == nil {
		panic("query: field needs a name and a comparator")
	}
	if _, dup := r.fields[key]; dup {
		panic("query: duplicate field " + key)
	}
	r.fields[key] = Field[T]{Name: name, Column: column, Compare: compare}
	r.names = append(r.names, name)
	return r
}

// Fields lists registered field names in registration order.
func (r *Registry[T]) Fields() []string {
	return slices.Clone(r.names)
}

func (r *Registry[T]) Lookup(name string) (Field[T], bool) {
	f, ok := r.fields[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// ResolvedKey pairs a registered field with the requested direction.
type ResolvedKey[T any] struct {
	Field     Field[T]
	Direction Direction
}

// Resolve checks every key of d against the registry.
func (r *Registry[T]) Resolve(d Directive) ([]ResolvedKey[T], error) {
	out := make([]ResolvedKey[T], 0, len(d))
	for _, k := range d {
		f, ok := r.Lookup(k.Field)
		if !ok {
			return nil, FieldNotFoundError{Field: k.Field}
		}
		out = append(out, ResolvedKey[T]{Field: f, Direction: k.Direction})
	}
	return out, nil
}

// OrderColumn is a storage-level ordering term.
type OrderColumn struct {
	Column string
	Desc   bool
}

// Columns resolves d to storage columns. Fields without a column cannot be
// sorted by the store and are reported as not found.
func (r *Registry[T]) Columns(d Directive) ([]OrderColumn, error) {
	keys, err := r.Resolve(d)
	if err != nil {
		return nil, err
	}
	out := make([]OrderColumn, 0, len(keys))
	for i, k := range keys {
		if k.Field.Column == "" {
			return nil, FieldNotFoundError{Field: d[i].Field}
		}
		out = append(out, OrderColumn{Column: k.Field.Column, Desc: k.Direction == Descending})
	}
	return out, nil
}

// By builds a comparator from a getter returning an ordered value.
func By[T any, K cmp.Ordered](get func(T) K) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(get(a), get(b))
	}
}

// ByFold compares strings case-insensitively.
func ByFold[T any](get func(T) string) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(strings.ToLower(get(a)), strings.ToLower(get(b)))
	}
}
