package tree

import "github.com/mcncl/jsonfuzz/models"

// Mapped composes a forward/backward value mapping with the internal
// mutator and cost function, so a mutation engine can operate over any
// tree-shaped native type without knowing its representation. The forward
// function may fail for values outside the internal domain; everything else
// is total.
type Mapped[T any] struct {
	inner    *Mutator
	forward  func(T) (Value, bool)
	backward func(Value) T
}

// NewMapped binds a native type to the internal mutator.
func NewMapped[T any](inner *Mutator, forward func(T) (Value, bool), backward func(Value) T) *Mapped[T] {
	return &Mapped[T]{inner: inner, forward: forward, backward: backward}
}

// Mutate maps the native value inward, mutates it, and maps it back. It
// reports false when the value is not representable internally; the caller
// skips the value or falls back to another strategy.
func (mm *Mapped[T]) Mutate(v T) (T, bool) {
	iv, ok := mm.forward(v)
	if !ok {
		var zero T
		return zero, false
	}
	mm.inner.Mutate(&iv)
	return mm.backward(iv), true
}

// Generate builds a fresh native value under the given cost budget.
func (mm *Mapped[T]) Generate(budget uint64) T {
	return mm.backward(mm.inner.Generate(budget))
}

// Cost scores a native value, reporting false when it is not representable.
func (mm *Mapped[T]) Cost(v T) (uint64, bool) {
	iv, ok := mm.forward(v)
	if !ok {
		return 0, false
	}
	return Cost(iv), true
}

// NewJSONMutator is the concrete binding for the native models.JSONValue
// type.
func NewJSONMutator(seed int64, maxCost uint64) *Mapped[models.JSONValue] {
	return NewMapped(NewMutator(seed, maxCost), FromNative, ToNative)
}
