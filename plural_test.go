package lazy

import "testing"

type testPoint struct {
	Object
}

type pointWorld struct {
	pointSchema *Schema
	x           *VariableDescriptor[float64]
}

func newPointWorld() *pointWorld {
	w := &pointWorld{
		x: Variable("x", func() float64 { return 0 }),
	}
	w.pointSchema = NewSchema("Point").Declare(w.x).Seal()
	return w
}

func (w *pointWorld) newPoint(x float64) *testPoint {
	p := &testPoint{}
	w.pointSchema.Init(&p.Object)
	w.x.Set(&p.Object, x)
	return p
}

type sceneWorld struct {
	*pointWorld
	sceneSchema *Schema
	points      *VariableSliceDescriptor[*testPoint]
	sumX        *PropertyDescriptor[float64]
	sumCalls    int
}

func newSceneWorld() *sceneWorld {
	w := &sceneWorld{pointWorld: newPointWorld()}
	w.points = VariableSlice("points", func() []*testPoint { return nil },
		WithElementSchema(w.pointSchema))
	w.sumX = Property("sum_x", []Chain{{"points", "x"}}, func(args []any) (float64, error) {
		w.sumCalls++
		total := 0.0
		for _, x := range SliceOf[float64](args[0]) {
			total += x
		}
		return total, nil
	})
	w.sceneSchema = NewSchema("Scene").Declare(w.points, w.sumX).Seal()
	return w
}

func TestPluralChainBranches(t *testing.T) {
	w := newSceneWorld()
	scene := w.sceneSchema.New()
	w.points.Set(scene, []*testPoint{w.newPoint(1), w.newPoint(2), w.newPoint(3)})

	got, err := w.sumX.Get(scene)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 6 {
		t.Errorf("expected 6, got %v", got)
	}

	w.sumX.Get(scene)
	if w.sumCalls != 1 {
		t.Errorf("expected one computation, got %d", w.sumCalls)
	}
}

func TestPluralChainEmpty(t *testing.T) {
	w := newSceneWorld()
	scene := w.sceneSchema.New()

	got, err := w.sumX.Get(scene)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 0 {
		t.Errorf("expected 0 over no children, got %v", got)
	}
}

func TestChildWriteInvalidatesParentProperty(t *testing.T) {
	w := newSceneWorld()
	scene := w.sceneSchema.New()
	p2 := w.newPoint(2)
	w.points.Set(scene, []*testPoint{w.newPoint(1), p2, w.newPoint(3)})
	w.sumX.Get(scene)

	if err := w.x.Set(&p2.Object, 10); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got, err := w.sumX.Get(scene)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 14 {
		t.Errorf("expected 14, got %v", got)
	}
	if w.sumCalls != 2 {
		t.Errorf("expected two computations, got %d", w.sumCalls)
	}
}

func TestPluralVariableWriteInvalidates(t *testing.T) {
	w := newSceneWorld()
	scene := w.sceneSchema.New()
	w.points.Set(scene, []*testPoint{w.newPoint(1)})
	w.sumX.Get(scene)

	w.points.Set(scene, []*testPoint{w.newPoint(5), w.newPoint(7)})
	got, err := w.sumX.Get(scene)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 12 {
		t.Errorf("expected 12, got %v", got)
	}
}

func TestDetachedChildNoLongerInvalidates(t *testing.T) {
	w := newSceneWorld()
	scene := w.sceneSchema.New()
	old := w.newPoint(1)
	w.points.Set(scene, []*testPoint{old})
	w.sumX.Get(scene)

	w.points.Set(scene, []*testPoint{w.newPoint(2)})
	w.sumX.Get(scene)
	calls := w.sumCalls

	// The old child's variable slot lost its backlink on expiry.
	w.x.Set(&old.Object, 100)
	w.sumX.Get(scene)
	if w.sumCalls != calls {
		t.Errorf("expected no recomputation after writing a detached child, got %d calls", w.sumCalls)
	}
}

func TestSingularEntityChain(t *testing.T) {
	w := newPointWorld()
	calls := 0
	origin := Variable[*testPoint]("origin", func() *testPoint { return w.newPoint(0) },
		WithElementSchema(w.pointSchema))
	originX := Property("origin_x", []Chain{{"origin", "x"}}, func(args []any) (float64, error) {
		calls++
		return Scalar[float64](args[0]), nil
	})
	schema := NewSchema("Frame").Declare(origin, originX).Seal()

	frame := schema.New()
	p := w.newPoint(3)
	origin.Set(frame, p)

	got, err := originX.Get(frame)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 3 {
		t.Errorf("expected 3, got %v", got)
	}

	w.x.Set(&p.Object, 8)
	got, err = originX.Get(frame)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 8 {
		t.Errorf("expected 8, got %v", got)
	}
	if calls != 2 {
		t.Errorf("expected two computations, got %d", calls)
	}
}

func TestPluralProperty(t *testing.T) {
	w := newPointWorld()
	doubled := PropertySlice("doubled", []Chain{{"points", "x"}}, func(args []any) ([]float64, error) {
		xs := SliceOf[float64](args[0])
		out := make([]float64, len(xs))
		for i, x := range xs {
			out[i] = 2 * x
		}
		return out, nil
	})
	points := VariableSlice("points", func() []*testPoint { return nil },
		WithElementSchema(w.pointSchema))
	schema := NewSchema("Scene").Declare(points, doubled).Seal()

	scene := schema.New()
	points.Set(scene, []*testPoint{w.newPoint(1), w.newPoint(4)})

	got, err := doubled.Get(scene)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 8 {
		t.Errorf("expected [2 8], got %v", got)
	}
}

func TestPluralVariableGet(t *testing.T) {
	w := newSceneWorld()
	scene := w.sceneSchema.New()
	p1, p2 := w.newPoint(1), w.newPoint(2)
	w.points.Set(scene, []*testPoint{p1, p2})

	got, err := w.points.Get(scene)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 || got[0] != p1 || got[1] != p2 {
		t.Errorf("expected the same points back, got %v", got)
	}
}
