// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package args

import (
	"maps"
	"slices"
)

// Bag holds the converted values and flags of a single invocation.
type Bag struct {
	values map[string]any
	flags  map[string]bool
}

// NewBag creates an empty bag.
func NewBag() *Bag {
	return &Bag{
		values: make(map[string]any),
		flags:  make(map[string]bool),
	}
}

// Put stores the converted value for a slot.
func (b *Bag) Put(name string, value any) {
	b.values[name] = value
}

// Get returns the value bound to a slot.
func (b *Bag) Get(name string) (any, bool) {
	v, ok := b.values[name]
	return v, ok
}

// Has reports whether a slot was bound.
func (b *Bag) Has(name string) bool {
	_, ok := b.values[name]
	return ok
}

// Len returns the number of bound slots.
func (b *Bag) Len() int {
	return len(b.values)
}

// Names returns the bound slot names, sorted.
func (b *Bag) Names() []string {
	return slices.Sorted(maps.Keys(b.values))
}

// SetFlag marks a flag as present.
func (b *Bag) SetFlag(flag string) {
	b.flags[flag] = true
}

// Flag reports whether a flag was present.
func (b *Bag) Flag(flag string) bool {
	return b.flags[flag]
}

// Flags returns the present flags, sorted.
func (b *Bag) Flags() []string {
	return slices.Sorted(maps.Keys(b.flags))
}

// Value returns the value bound to name as T. The second result is false
// when the slot is absent or holds a different type.
func Value[T any](b *Bag, name string) (T, bool) {
	v, ok := b.values[name]
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// ValueOr returns the value bound to name as T, or def.
func ValueOr[T any](b *Bag, name string, def T) T {
	if v, ok := Value[T](b, name); ok {
		return v
	}
	return def
}
