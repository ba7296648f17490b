// SPDX-License-Identifier: MIT

// Package storage - exclusively owned, fixed-capacity element buffer.
//
// Purpose:
//   - Hold up to Cap() elements of T in ONE contiguous region reserved at creation.
//   - Track how many slots were constructed (Used) and expose only those.
//   - Release exactly the constructed elements, in forward order, then drop the region.
//   - Transfer ownership explicitly (Move); duplicate only on request (Clone).
//
// Invariants:
//   - 0 ≤ Used() ≤ Cap(); Cap() never changes while the buffer is owned.
//   - Indices [0, Used()) hold pushed values; [Used(), Cap()) are never readable.
//   - After Move or Release the storage is empty (Cap()==0) and every call is a safe no-op
//     or a CapacityExceeded failure; nothing can be released twice.
//
// AI-Hints:
//   - Backing slice has len==used and cap==capacity: any read past Used() panics
//     through the runtime bounds check in every build.
//   - T is copied by value on Push; pointer-bearing T keeps sharing its pointees.
package storage

import (
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrCapacityExceeded is returned by Push when every reserved slot is constructed.
	// Reaching it from a well-formed caller is a programming error.
	ErrCapacityExceeded = errors.New("storage: capacity exceeded")

	// ErrNegativeCapacity is returned by New for capacity < 0.
	ErrNegativeCapacity = errors.New("storage: negative capacity")
)

const panicReadPastUsed = "storage: index past constructed region"

// noCopy makes `go vet` (copylocks) report accidental value copies of Storage.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Storage is a fixed-capacity buffer with a single owner.
// Always handle it through *Storage; use Move to hand it over and Clone to duplicate it.
type Storage[T any] struct {
	_ noCopy

	data    []T        // len == used, cap == capacity; nil when capacity==0
	release func(p *T) // optional per-element hook run by Release
}

// Option configures a Storage at creation.
type Option[T any] func(*Storage[T])

// WithReleaseHook registers fn to run on every constructed element, in index order,
// when the storage is released. The element is zeroed right after fn returns.
func WithReleaseHook[T any](fn func(p *T)) Option[T] {
	return func(s *Storage[T]) { s.release = fn }
}

// New reserves room for exactly capacity elements; none are constructed yet.
// capacity==0 performs no allocation.
// Complexity: O(capacity) for the reservation.
func New[T any](capacity int, opts ...Option[T]) (*Storage[T], error) {
	if capacity < 0 {
		return nil, fmt.Errorf("storage.New(%d): %w", capacity, ErrNegativeCapacity)
	}
	s := &Storage[T]{}
	for _, opt := range opts {
		opt(s)
	}
	if capacity > 0 {
		s.data = make([]T, 0, capacity)
	}

	return s, nil
}

// Cap returns the number of reserved slots.
func (s *Storage[T]) Cap() int { return cap(s.data) }

// Used returns the number of constructed slots.
func (s *Storage[T]) Used() int { return len(s.data) }

// Len is an alias of Used so Storage reads like a slice in range loops.
func (s *Storage[T]) Len() int { return len(s.data) }

// Full reports whether every reserved slot is constructed.
func (s *Storage[T]) Full() bool { return len(s.data) == cap(s.data) }

// Push constructs the next free slot from v.
// Errors:
//   - ErrCapacityExceeded when Used()==Cap(); the storage is left untouched.
//
// Complexity: O(1); never reallocates.
func (s *Storage[T]) Push(v T) error {
	if len(s.data) == cap(s.data) {
		return fmt.Errorf("storage.Push(used=%d): %w", len(s.data), ErrCapacityExceeded)
	}
	s.data = append(s.data, v) // stays inside the reserved region

	return nil
}

// At returns a copy of the i-th constructed element. Panics when i ≥ Used().
func (s *Storage[T]) At(i int) T { return s.data[i] }

// Ref returns the address of the i-th constructed element for in-place updates.
// Panics when i ≥ Used().
func (s *Storage[T]) Ref(i int) *T { return &s.data[i] }

// Slice returns the constructed window [from, to) without copying.
// Writes through the window mutate the storage. Panics when to > Used().
func (s *Storage[T]) Slice(from, to int) []T {
	if to > len(s.data) {
		panic(panicReadPastUsed)
	}

	return s.data[from:to:to] // full slice expr: append on the window cannot reach unconstructed slots
}

// All iterates the constructed elements in index order.
func (s *Storage[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range s.data {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Clone returns an independent storage of the same capacity holding copies of
// every constructed element (same order). The release hook is shared.
// Complexity: O(Cap()).
func (s *Storage[T]) Clone() *Storage[T] {
	out := &Storage[T]{release: s.release}
	if cap(s.data) > 0 {
		out.data = make([]T, 0, cap(s.data))
		out.data = append(out.data, s.data...)
	}

	return out
}

// Move transfers the region, the used counter and the hook to a new owner.
// The receiver becomes an empty, capacity-0 storage whose Release does nothing.
// Complexity: O(1).
func (s *Storage[T]) Move() *Storage[T] {
	out := &Storage[T]{data: s.data, release: s.release}
	s.data, s.release = nil, nil

	return out
}

// Release destroys the constructed elements in forward index order (hook, then
// zero value) and drops the region. Calling it again, or on a moved-from
// storage, is a no-op.
// Complexity: O(Used()).
func (s *Storage[T]) Release() {
	if s.data == nil {
		return
	}
	var zero T
	for i := range s.data {
		if s.release != nil {
			s.release(&s.data[i])
		}
		s.data[i] = zero // drop references held by the element
	}
	s.data = nil
}
