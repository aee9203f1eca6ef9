// Package pair provides an immutable two-value tuple.
package pair

import "fmt"

// Pair holds two values. Fields are unexported so a Pair cannot change once built.
type Pair[A, B any] struct {
	first  A
	second B
}

// Of builds a Pair from a and b.
func Of[A, B any](a A, b B) Pair[A, B] {
	return Pair[A, B]{first: a, second: b}
}

func (p Pair[A, B]) First() A  { return p.first }
func (p Pair[A, B]) Second() B { return p.second }

// Unpack returns both values.
func (p Pair[A, B]) Unpack() (A, B) {
	return p.first, p.second
}

func (p Pair[A, B]) String() string {
	return fmt.Sprintf("(%v, %v)", p.first, p.second)
}
