package lazy

import (
	"errors"
	"testing"
)

// invert2x2 inverts a row-major 2x2 matrix.
func invert2x2(m []float64) ([]float64, error) {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 {
		return nil, errors.New("singular matrix")
	}
	return []float64{m[3] / det, -m[1] / det, -m[2] / det, m[0] / det}, nil
}

type modelWorld struct {
	schema       *Schema
	matrix       *VariableDescriptor[[]float64]
	inverse      *PropertyDescriptor[[]float64]
	inverseCalls int
}

func newModelWorld() *modelWorld {
	w := &modelWorld{}
	w.matrix = Variable("matrix", func() []float64 {
		return []float64{1, 0, 0, 1}
	}, WithHasher(func(v any) any { return HashFloats(v.([]float64)) }), WithFreeze())
	w.inverse = Property("inverse", []Chain{{"matrix"}}, func(args []any) ([]float64, error) {
		w.inverseCalls++
		return invert2x2(Scalar[[]float64](args[0]))
	}, WithFreeze())
	w.schema = NewSchema("Model").Declare(w.matrix, w.inverse).Seal()
	return w
}

func TestModelsShareInverseByContent(t *testing.T) {
	w := newModelWorld()
	a := w.schema.New()
	b := w.schema.New()

	// Distinct slices, equal content: one registered handle, one
	// fingerprint, one computation.
	w.matrix.Set(a, []float64{2, 0, 0, 2})
	w.matrix.Set(b, []float64{2, 0, 0, 2})

	invA, err := w.inverse.Get(a)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	invB, err := w.inverse.Get(b)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if invA[0] != 0.5 || invB[0] != 0.5 {
		t.Errorf("expected inverse scale 0.5, got %v and %v", invA[0], invB[0])
	}
	if w.inverseCalls != 1 {
		t.Errorf("expected one shared computation, got %d", w.inverseCalls)
	}
}

func TestModelWriteBackToLiveContentHitsCache(t *testing.T) {
	w := newModelWorld()
	a := w.schema.New()
	b := w.schema.New()
	w.matrix.Set(a, []float64{2, 0, 0, 2})
	w.matrix.Set(b, []float64{2, 0, 0, 2})
	w.inverse.Get(a)
	w.inverse.Get(b)

	w.matrix.Set(a, []float64{3, 0, 0, 3})
	w.inverse.Get(a)
	if w.inverseCalls != 2 {
		t.Fatalf("expected a fresh computation for new content, got %d", w.inverseCalls)
	}

	// b still holds the original handle, so writing the original
	// content back to a reuses it and the cached result.
	w.matrix.Set(a, []float64{2, 0, 0, 2})
	inv, err := w.inverse.Get(a)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if inv[0] != 0.5 {
		t.Errorf("expected 0.5, got %v", inv[0])
	}
	if w.inverseCalls != 2 {
		t.Errorf("expected a cache hit on the original content, got %d calls", w.inverseCalls)
	}
}

func TestModelUnchangedWritePreservesSlot(t *testing.T) {
	w := newModelWorld()
	a := w.schema.New()
	w.matrix.Set(a, []float64{2, 0, 0, 2})
	w.inverse.Get(a)

	if err := w.matrix.Set(a, []float64{2, 0, 0, 2}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !AccessProperty(w.inverse, a).IsCached() {
		t.Error("expected the unchanged write to leave the slot populated")
	}
	w.inverse.Get(a)
	if w.inverseCalls != 1 {
		t.Errorf("expected no recomputation, got %d calls", w.inverseCalls)
	}
}

func TestModelSingularMatrixError(t *testing.T) {
	w := newModelWorld()
	a := w.schema.New()
	w.matrix.Set(a, []float64{1, 1, 1, 1})

	_, err := w.inverse.Get(a)
	var cErr *ComputeError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected *ComputeError, got %v", err)
	}
}

func TestCacheCapacityBoundsSharing(t *testing.T) {
	calls := 0
	n := Variable("n", func() int { return 0 }, WithContentHash(), WithFreeze())
	sq := Property("sq", []Chain{{"n"}}, func(args []any) (int, error) {
		calls++
		v := Scalar[int](args[0])
		return v * v, nil
	}, WithFreeze(), WithCacheCapacity(2))
	schema := NewSchema("Sq").Declare(n, sq).Seal()

	objs := make([]*Object, 4)
	for i := range objs {
		objs[i] = schema.New()
		n.Set(objs[i], i)
		sq.Get(objs[i])
	}
	if calls != 4 {
		t.Fatalf("expected 4 distinct computations, got %d", calls)
	}

	// The two oldest fingerprints were evicted; a fresh instance with
	// the oldest content recomputes.
	o := schema.New()
	n.Set(o, 0)
	sq.Get(o)
	if calls != 5 {
		t.Errorf("expected a recomputation after eviction, got %d calls", calls)
	}

	// The newest content is still cached.
	o2 := schema.New()
	n.Set(o2, 3)
	sq.Get(o2)
	if calls != 5 {
		t.Errorf("expected a cache hit on recent content, got %d calls", calls)
	}
}

func BenchmarkPropertySlotHit(b *testing.B) {
	schema, _, area, _ := buildCircle(nil, nil)
	o := schema.New()
	if _, err := area.Get(o); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := area.Get(o); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkVariableWriteInvalidate(b *testing.B) {
	schema, radius, area, _ := buildCircle(nil, nil)
	o := schema.New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := radius.Set(o, float64(i)); err != nil {
			b.Fatal(err)
		}
		if _, err := area.Get(o); err != nil {
			b.Fatal(err)
		}
	}
}
