// Package maybe provides an optional value container.
package maybe

import "errors"

// ErrEmptyValueAccess is returned when reading a Maybe that holds no value.
// Reaching it means the caller skipped an IsPresent check.
var ErrEmptyValueAccess = errors.New("access of empty optional value")

// Maybe holds zero or one value of type T. The zero value is empty.
type Maybe[T any] struct {
	value   T
	present bool
}

// Some returns a Maybe holding v.
func Some[T any](v T) Maybe[T] {
	return Maybe[T]{value: v, present: true}
}

// None returns an empty Maybe.
func None[T any]() Maybe[T] {
	return Maybe[T]{}
}

// IsPresent reports whether a value is held.
func (m Maybe[T]) IsPresent() bool {
	return m.present
}

// Get returns the held value or ErrEmptyValueAccess.
func (m Maybe[T]) Get() (T, error) {
	if !m.present {
		var zero T
		return zero, ErrEmptyValueAccess
	}
	return m.value, nil
}

// MustGet returns the held value and panics when empty.
func (m Maybe[T]) MustGet() T {
	v, err := m.Get()
	if err != nil {
		panic(err)
	}
	return v
}

// OrElse returns the held value, or fallback when empty.
func (m Maybe[T]) OrElse(fallback T) T {
	if !m.present {
		return fallback
	}
	return m.value
}

// Set replaces the held value.
func (m *Maybe[T]) Set(v T) {
	m.value = v
	m.present = true
}

// Clear empties the container.
func (m *Maybe[T]) Clear() {
	var zero T
	m.value = zero
	m.present = false
}
