package lazy

import (
	"runtime"
	"sync"
	"sync/atomic"
	"weak"
)

// registeredSerial issues process-unique identities for Registered
// handles. Serials are never reused, so fingerprints built from them
// stay unambiguous even after handles are collected.
var registeredSerial atomic.Uint64

// Registered is an identity-comparable handle wrapping a value. Two
// handles obtained from the same Registry under equal keys are the same
// pointer while either is alive.
type Registered[T any] struct {
	value  T
	serial uint64
}

func newRegistered[T any](value T) *Registered[T] {
	return &Registered[T]{
		value:  value,
		serial: registeredSerial.Add(1),
	}
}

// Value returns the wrapped value.
func (r *Registered[T]) Value() T {
	return r.value
}

// Serial returns the handle's process-unique identity.
func (r *Registered[T]) Serial() uint64 {
	return r.serial
}

// Registry is a weak-value table deduplicating structurally-equal
// values: at most one live Registered handle exists per distinct key.
// Entries vanish automatically once no slot holds the handle; there is
// no delete API.
//
// The table itself is safe for concurrent use because handle cleanups
// run on GC goroutines; the rest of the attribute machinery is
// single-goroutine.
type Registry[K comparable, V any] struct {
	entries sync.Map // K -> weak.Pointer[Registered[V]]
}

// NewRegistry creates an empty registry.
func NewRegistry[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{}
}

// Register returns the live handle for key if one exists, otherwise
// wraps value in a new handle, stores it weakly, and returns it.
func (r *Registry[K, V]) Register(key K, value V) *Registered[V] {
	if entry, ok := r.entries.Load(key); ok {
		if h := entry.(weak.Pointer[Registered[V]]).Value(); h != nil {
			return h
		}
	}
	h := newRegistered(value)
	wp := weak.Make(h)
	runtime.AddCleanup(h, func(wp weak.Pointer[Registered[V]]) {
		r.entries.CompareAndDelete(key, wp)
	}, wp)
	r.entries.Store(key, wp)
	return h
}

// Len counts entries whose handle is still alive.
func (r *Registry[K, V]) Len() int {
	n := 0
	r.entries.Range(func(_, entry any) bool {
		if entry.(weak.Pointer[Registered[V]]).Value() != nil {
			n++
		}
		return true
	})
	return n
}
