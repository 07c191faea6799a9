package lazy

import (
	"encoding/binary"
	"math"
	"reflect"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

var identitySerial atomic.Uint64

// IdentityHash is the default hasher: it keys an element by object
// identity, so no two distinct objects ever share a handle. Pointers,
// channels and entities key by the pointer itself; values without a
// stable identity get a fresh key on every registration.
func IdentityHash(v any) any {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return v
	case reflect.Map, reflect.Func:
		return reflect.ValueOf(v).Pointer()
	default:
		return identitySerial.Add(1)
	}
}

// ContentHash keys an element by its value, enabling registry
// deduplication of equal content. The element's dynamic type must be
// comparable (strings, numbers, bools, arrays); use HashBytes for
// slice-backed data.
func ContentHash(v any) any {
	return v
}

// HashBytes adapts a byte encoding into a content hasher, digesting the
// canonical bytes with xxhash. Suitable for large value types such as
// geometry buffers where storing the full content as a key would defeat
// the point of the cache.
func HashBytes[T any](encode func(T) []byte) func(any) any {
	return func(v any) any {
		return xxhash.Sum64(encode(v.(T)))
	}
}

// HashFloats digests a float64 slice into a 64-bit content key.
func HashFloats(vs []float64) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, v := range vs {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		d.Write(buf[:])
	}
	return d.Sum64()
}
