package lazy

// Extension provides hooks into the attribute lifecycle. Extensions are
// registered per schema and wrap user-function computes and variable
// writes middleware-style; instance-level cache hits stay untouched to
// keep the O(1) read path free of overhead.
type Extension interface {
	// Name returns the extension's name.
	Name() string

	// Order determines extension execution order (lower = earlier).
	Order() int

	// Init is called when the extension is registered to a schema.
	Init(schema *Schema) error

	// Wrap intercepts compute and write operations.
	Wrap(next func() (any, error), op *Operation) (any, error)

	// OnError handles errors surfaced by a wrapped operation.
	OnError(err error, op *Operation)

	// OnExpire is called for each property slot invalidated by a write.
	OnExpire(op *Operation)

	// OnCacheEvent reports fingerprint-cache hits, misses and evictions.
	OnCacheEvent(kind CacheEventKind, op *Operation)

	// Dispose is called when the schema's extensions are disposed.
	Dispose(schema *Schema) error
}

// Operation describes what operation is happening.
type Operation struct {
	Kind   OperationKind
	Schema *Schema
	Attr   string
	Object *Object

	// Params carries the resolved parameter trees of a compute
	// operation, nil otherwise.
	Params []*Tree[any]
}

// OperationKind represents the type of operation.
type OperationKind string

const (
	// OpCompute indicates a property user-function invocation.
	OpCompute OperationKind = "compute"
	// OpWrite indicates a variable write.
	OpWrite OperationKind = "write"
	// OpExpire indicates a property slot invalidation.
	OpExpire OperationKind = "expire"
)

// CacheEventKind classifies fingerprint-cache events.
type CacheEventKind string

const (
	CacheHit   CacheEventKind = "hit"
	CacheMiss  CacheEventKind = "miss"
	CacheEvict CacheEventKind = "evict"
)

func cacheEventKind(hit bool) CacheEventKind {
	if hit {
		return CacheHit
	}
	return CacheMiss
}

// BaseExtension provides default implementations for Extension methods.
type BaseExtension struct {
	name string
}

// NewBaseExtension creates a new base extension with the given name.
func NewBaseExtension(name string) BaseExtension {
	return BaseExtension{name: name}
}

func (e *BaseExtension) Name() string {
	return e.name
}

func (e *BaseExtension) Order() int {
	return 100
}

func (e *BaseExtension) Init(schema *Schema) error {
	return nil
}

func (e *BaseExtension) Wrap(next func() (any, error), op *Operation) (any, error) {
	return next()
}

func (e *BaseExtension) OnError(err error, op *Operation) {
}

func (e *BaseExtension) OnExpire(op *Operation) {
}

func (e *BaseExtension) OnCacheEvent(kind CacheEventKind, op *Operation) {
}

func (e *BaseExtension) Dispose(schema *Schema) error {
	return nil
}
