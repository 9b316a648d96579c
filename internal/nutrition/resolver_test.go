package nutrition

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/joseph-ayodele/menu-builder/constants"
	"github.com/joseph-ayodele/menu-builder/internal/entity"
	"github.com/joseph-ayodele/menu-builder/internal/fdc"
)

type stubSource struct {
	results map[string]fdc.Result
	calls   []string
}

func (s *stubSource) Lookup(_ context.Context, name string) fdc.Result {
	s.calls = append(s.calls, name)
	if r, ok := s.results[name]; ok {
		return r
	}
	return fdc.Result{Status: constants.LookupNotFound, Nutrients: entity.NewNutrients()}
}

func nutrients(kv map[constants.NutrientField]float64) entity.Nutrients {
	n := entity.NewNutrients()
	for k, v := range kv {
		n.Set(k, v)
	}
	return n
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fullRecord() entity.Nutrients {
	n := entity.NewNutrients()
	for i, f := range constants.NutrientFields() {
		n.Set(f, float64(i+1))
	}
	return n
}

func TestCompleteRecipeEntrySkipsRemote(t *testing.T) {
	src := &stubSource{}
	r := NewResolver(src, RecipeTable{"Beef Stew": fullRecord()}, WithLogger(quietLogger()))

	res := r.Resolve(context.Background(), entity.FoodItem{Name: "Beef Stew"})
	if len(src.calls) != 0 {
		t.Fatalf("expected no remote calls, got %v", src.calls)
	}
	if res.Provenance != constants.ProvenanceRecipe {
		t.Fatalf("provenance = %s", res.Provenance)
	}
	if res.Outcome != constants.LookupSkipped {
		t.Fatalf("outcome = %s", res.Outcome)
	}
	if !res.Nutrients.Complete() {
		t.Fatalf("record incomplete: %v", res.Nutrients)
	}
}

func TestOneRemoteLookupPerNormalizedName(t *testing.T) {
	src := &stubSource{}
	var slept []time.Duration
	r := NewResolver(src, nil,
		WithDelay(100*time.Millisecond),
		WithSleep(func(d time.Duration) { slept = append(slept, d) }),
		WithLogger(quietLogger()),
	)

	list := []entity.FoodItem{
		{Name: "Mac  and Cheese"},
		{Name: "Mac and Cheese", RecipeID: "A1234"},
		{Name: " Mac and Cheese "},
		{Name: "Green Beans"},
	}
	r.ResolveAll(context.Background(), list)

	if len(src.calls) != 2 {
		t.Fatalf("expected 2 remote calls, got %v", src.calls)
	}
	if len(slept) != 2 {
		t.Fatalf("expected a delay after each miss only, got %d", len(slept))
	}
	st := r.Stats()
	if st.Hits != 2 || st.Misses != 2 || st.Items != 4 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if st.Outcomes[constants.LookupNotFound] != 4 {
		t.Fatalf("outcomes = %v", st.Outcomes)
	}
}

func TestMissingKeySkipsDelay(t *testing.T) {
	var slept []time.Duration
	r := NewResolver(fdc.NewClient(fdc.Config{}, quietLogger()), nil,
		WithDelay(100*time.Millisecond),
		WithSleep(func(d time.Duration) { slept = append(slept, d) }),
		WithLogger(quietLogger()),
	)

	res := r.ResolveAll(context.Background(), []entity.FoodItem{{Name: "Corn Bread"}, {Name: "Green Beans"}})
	if len(slept) != 0 {
		t.Fatalf("no request was made, expected no delay, slept %v", slept)
	}
	if res[0].Outcome != constants.LookupFailed || res[1].Outcome != constants.LookupFailed {
		t.Fatalf("outcomes = %s, %s", res[0].Outcome, res[1].Outcome)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	src := &stubSource{results: map[string]fdc.Result{
		"Rice Pilaf": {Status: constants.LookupFound, Nutrients: nutrients(map[constants.NutrientField]float64{
			constants.Calories: 190, constants.Carbs: 40,
		})},
	}}
	r := NewResolver(src, nil, WithLogger(quietLogger()))
	item := entity.FoodItem{Name: "Rice Pilaf"}

	first := r.Resolve(context.Background(), item)
	second := r.Resolve(context.Background(), item)

	if len(src.calls) != 1 {
		t.Fatalf("expected 1 remote call, got %d", len(src.calls))
	}
	if first.Provenance != second.Provenance || first.Nutrients.Known() != second.Nutrients.Known() {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
	for _, f := range constants.NutrientFields() {
		a, aok := first.Nutrients.Get(f)
		b, bok := second.Nutrients.Get(f)
		if a != b || aok != bok {
			t.Fatalf("%s differs: %v/%v vs %v/%v", f, a, aok, b, bok)
		}
	}
}

func TestCachedRecordIsNotAliased(t *testing.T) {
	src := &stubSource{results: map[string]fdc.Result{
		"Toast": {Status: constants.LookupFound, Nutrients: nutrients(map[constants.NutrientField]float64{constants.Fat: 1})},
	}}
	r := NewResolver(src, nil, WithLogger(quietLogger()))

	first := r.Resolve(context.Background(), entity.FoodItem{Name: "Toast"})
	first.Nutrients.Set(constants.Fat, 99)

	second := r.Resolve(context.Background(), entity.FoodItem{Name: "Toast"})
	if v, _ := second.Nutrients.Get(constants.Fat); v != 1 {
		t.Fatalf("cache was mutated through a returned record: fat=%v", v)
	}
}

func TestRemoteFillsOnlyFieldsItHas(t *testing.T) {
	src := &stubSource{results: map[string]fdc.Result{
		"Roasted Red Potatoes": {Status: constants.LookupFound, Nutrients: nutrients(map[constants.NutrientField]float64{
			constants.Fiber: 3.2, constants.Sodium: 12,
		})},
	}}
	r := NewResolver(src, nil, WithLogger(quietLogger()))

	res := r.Resolve(context.Background(), entity.FoodItem{Name: "Roasted Red Potatoes"})
	if v, ok := res.Nutrients.Get(constants.Fiber); !ok || v != 3.2 {
		t.Fatalf("fiber = %v, %v", v, ok)
	}
	if _, ok := res.Nutrients.Get(constants.Sugar); ok {
		t.Fatal("sugar should be unknown")
	}
	if res.Provenance != constants.ProvenanceUSDA {
		t.Fatalf("provenance = %s", res.Provenance)
	}
}

func TestPartialRecipeEntryIsMixed(t *testing.T) {
	src := &stubSource{results: map[string]fdc.Result{
		"Chili": {Status: constants.LookupFound, Nutrients: nutrients(map[constants.NutrientField]float64{
			constants.Calories: 999, constants.Fiber: 6,
		})},
	}}
	table := RecipeTable{"Chili": nutrients(map[constants.NutrientField]float64{constants.Calories: 250})}
	r := NewResolver(src, table, WithLogger(quietLogger()))

	res := r.Resolve(context.Background(), entity.FoodItem{Name: "Chili"})
	if v, _ := res.Nutrients.Get(constants.Calories); v != 250 {
		t.Fatalf("recipe value must win, got calories=%v", v)
	}
	if v, _ := res.Nutrients.Get(constants.Fiber); v != 6 {
		t.Fatalf("fiber = %v", v)
	}
	if res.Provenance != constants.ProvenanceMixed {
		t.Fatalf("provenance = %s", res.Provenance)
	}
}

func TestPartialRecipeWithEmptyRemoteStaysRecipe(t *testing.T) {
	table := RecipeTable{"Chili": nutrients(map[constants.NutrientField]float64{constants.Calories: 250})}
	r := NewResolver(&stubSource{}, table, WithLogger(quietLogger()))

	res := r.Resolve(context.Background(), entity.FoodItem{Name: "Chili"})
	if res.Provenance != constants.ProvenanceRecipe {
		t.Fatalf("provenance = %s", res.Provenance)
	}
	if res.Outcome != constants.LookupNotFound {
		t.Fatalf("outcome = %s", res.Outcome)
	}
}

func TestAllSourcesFailedLeavesUnknowns(t *testing.T) {
	src := &stubSource{results: map[string]fdc.Result{
		"Mystery Casserole": {Status: constants.LookupFailed, Nutrients: entity.NewNutrients()},
	}}
	r := NewResolver(src, nil, WithLogger(quietLogger()))

	res := r.Resolve(context.Background(), entity.FoodItem{Name: "Mystery Casserole"})
	if res.Nutrients.Known() != 0 {
		t.Fatalf("expected all unknown, got %v", res.Nutrients)
	}
	if res.Outcome != constants.LookupFailed {
		t.Fatalf("outcome = %s", res.Outcome)
	}
	if res.Provenance != constants.ProvenanceUSDA {
		t.Fatalf("provenance = %s", res.Provenance)
	}
}

func TestNilSourceDegrades(t *testing.T) {
	r := NewResolver(nil, nil, WithLogger(quietLogger()))
	res := r.Resolve(context.Background(), entity.FoodItem{Name: "Soup"})
	if res.Outcome != constants.LookupFailed || res.Nutrients.Known() != 0 {
		t.Fatalf("unexpected %+v", res)
	}
}

func TestProvenance(t *testing.T) {
	cases := []struct {
		recipe, remote int
		want           constants.Provenance
	}{
		{7, 0, constants.ProvenanceRecipe},
		{0, 7, constants.ProvenanceUSDA},
		{0, 0, constants.ProvenanceUSDA},
		{3, 2, constants.ProvenanceMixed},
	}
	for _, tc := range cases {
		if got := provenance(tc.recipe, tc.remote); got != tc.want {
			t.Errorf("provenance(%d,%d) = %s, want %s", tc.recipe, tc.remote, got, tc.want)
		}
	}
}
