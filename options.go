package lazy

// DescriptorOption is a modifier for descriptor declarations.
type DescriptorOption func(*descriptor)

// WithHasher sets a custom content hasher. The hasher maps an element
// to a comparable registry key; equal keys share one registered handle.
// Content-hashed attributes must also freeze (checked at Seal).
func WithHasher(hasher func(any) any) DescriptorOption {
	return func(d *descriptor) {
		d.hasher = hasher
		d.identityHashed = false
	}
}

// WithContentHash keys elements by their value. The element type must
// be comparable; use WithHasher(HashBytes(...)) for slice-backed data.
func WithContentHash() DescriptorOption {
	return WithHasher(ContentHash)
}

// WithFreeze marks computed or written values immutable and eligible
// for registry-based sharing; frozen property results are cached across
// calls in the descriptor's fingerprint cache.
func WithFreeze() DescriptorOption {
	return func(d *descriptor) {
		d.freeze = true
	}
}

// WithCacheCapacity overrides the descriptor's fingerprint cache bound.
func WithCacheCapacity(capacity int) DescriptorOption {
	return func(d *descriptor) {
		if capacity < 1 {
			panic(&DeclarationError{Attr: d.name, Reason: "cache capacity must be positive"})
		}
		d.cacheCapacity = capacity
	}
}

// WithElementSchema declares the schema of the attribute's entity
// elements, allowing parameter chains to continue through it.
func WithElementSchema(schema *Schema) DescriptorOption {
	return func(d *descriptor) {
		d.elementSchema = schema
	}
}
