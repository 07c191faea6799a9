// Package lazy provides a reactive dependency-tracking attribute cache:
// the incremental computation core under a scene-graph style engine,
// where every mutable attribute is a managed slot whose value is
// computed on demand, shared by content when possible, and invalidated
// automatically when an upstream dependency changes.
//
// # Overview
//
// The package organizes attributes around three concepts:
//
//  1. Variables: externally-settable leaf attributes with a default
//     factory (a transform matrix, a color, a flag).
//  2. Properties: derived, read-only attributes computed by a pure
//     function of other attributes, recomputed lazily.
//  3. Schemas: explicit per-type declarations of both, validated once
//     before any instance exists.
//
// # Basic usage
//
// Declare a schema with a variable and a property derived from it:
//
//	matrix := lazy.Variable("matrix", func() [4]float64 {
//	    return [4]float64{1, 0, 0, 1}
//	}, lazy.WithContentHash(), lazy.WithFreeze())
//
//	inverse := lazy.Property("inverse", []lazy.Chain{{"matrix"}},
//	    func(args []any) ([4]float64, error) {
//	        return invert(lazy.Scalar[[4]float64](args[0]))
//	    }, lazy.WithContentHash(), lazy.WithFreeze())
//
//	schema := lazy.NewSchema("Mat").Declare(matrix, inverse).Seal()
//
//	m := schema.New()
//	inv, err := inverse.Get(m) // computes once
//	inv, err = inverse.Get(m)  // instance-level hit, no recomputation
//
// Writing the variable expires every property that read it, at any
// chain depth, before Set returns; the next read recomputes:
//
//	_ = matrix.Set(m, [4]float64{2, 0, 0, 2})
//	inv, err = inverse.Get(m) // recomputes from the new matrix
//
// Writing a value whose registered content is unchanged is a no-op and
// invalidates nothing.
//
// # Parameter chains
//
// A property names its dependencies as chains of attribute names walked
// from the instance. A chain may step through entity-typed attributes
// (values embedding lazy.Object) into their own attributes, and may
// branch at plural steps:
//
//	// one leaf per child: args[0] is a []any of child radii
//	total := lazy.Property("total_radius",
//	    []lazy.Chain{{"children", "radius"}}, sumRadii)
//
// Chains are validated at Seal time: unresolvable names, chains through
// non-entity attributes, and cyclic declarations all panic with a
// *DeclarationError before the first instance is built.
//
// # Caching and sharing
//
// Reads hit three layers. A populated slot returns in O(1). An empty
// property slot resolves its parameters, fingerprints their identities,
// and consults the descriptor's bounded FIFO cache, so structurally
// identical computations are shared across instances. On a miss the
// user function runs once and, for frozen descriptors, the result tuple
// is cached under the fingerprint.
//
// Content-hashed elements are deduplicated through a weak-value
// registry: two instances holding equal frozen content share one
// registered handle, and the storage is reclaimed once the last slot
// lets go. Weak reclamation timing is implementation-defined; rely only
// on "eventually freed, never incorrectly shared".
//
// # Copying
//
// Object.Copy gives copy-on-write structural sharing: the copy's
// variable slots alias the source's registered handles, its property
// slots rebuild lazily (normally straight from the fingerprint cache),
// and writes to either instance never invalidate the other.
//
// # Extensions
//
// Schema.Use registers middleware wrapped around computes and writes,
// with hooks for expirations and cache events. The extensions
// subpackage ships structured logging (log/slog), Prometheus metrics,
// and a treedrawer-based parameter tree view.
//
// # Concurrency
//
// The attribute machinery is single-goroutine by contract: no locks are
// taken on the slot path. The weak registries and fingerprint caches
// are internally synchronized because garbage-collection cleanups touch
// them from GC goroutines.
package lazy
