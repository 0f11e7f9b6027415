package hierarchy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"
)

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return data
}

// inputIDs collects the ids of every element of a document in scan order.
func inputIDs(t *testing.T, doc []byte) []int64 {
	t.Helper()
	buckets, err := ValidateShape(doc)
	if err != nil {
		t.Fatalf("shape: %v", err)
	}
	var ids []int64
	for _, b := range buckets {
		for _, elem := range b.Elements {
			var v struct {
				ID int64 `json:"id"`
			}
			if err := json.Unmarshal(elem, &v); err != nil {
				t.Fatalf("decode element: %v", err)
			}
			ids = append(ids, v.ID)
		}
	}
	return ids
}

func TestFormat_Golden(t *testing.T) {
	roots, err := Format(readTestdata(t, "house.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := json.Marshal(roots)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var gotV, wantV any
	if err := json.Unmarshal(got, &gotV); err != nil {
		t.Fatalf("unmarshal got: %v", err)
	}
	if err := json.Unmarshal(readTestdata(t, "house.golden.json"), &wantV); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
	if !reflect.DeepEqual(gotV, wantV) {
		t.Errorf("output mismatch\ngot:  %s", got)
	}
}

func TestFormat_ConservesIDs(t *testing.T) {
	doc := readTestdata(t, "house.json")
	roots, err := Format(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in := inputIDs(t, doc)
	out := Flatten(roots)
	if len(out) != len(in) {
		t.Fatalf("expected %d entities in output, got %d", len(in), len(out))
	}
	sort.Slice(in, func(i, j int) bool { return in[i] < in[j] })
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	if !equalIDs(in, out) {
		t.Errorf("id sets differ: input %v, output %v", in, out)
	}
}

func TestFormat_EmptyObject(t *testing.T) {
	roots, err := Format(json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, _ := json.Marshal(roots)
	if string(out) != "[]" {
		t.Errorf("expected [], got %s", out)
	}
}

func TestFormat_EmptyBuckets(t *testing.T) {
	roots, err := Format(json.RawMessage(`{"0": [], "1": []}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roots) != 0 {
		t.Errorf("expected no roots, got %d", len(roots))
	}
}

func TestFormat_FlatRoots(t *testing.T) {
	doc := `{"0": [
		{"id":10,"title":"House","level":0,"children":[],"parent_id":null},
		{"id":11,"title":"Car","level":0,"children":[],"parent_id":null}]}`
	roots, err := Format(json.RawMessage(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0].Title != "House" || roots[1].Title != "Car" {
		t.Errorf("expected House then Car, got %q then %q", roots[0].Title, roots[1].Title)
	}
	for _, r := range roots {
		if len(r.Children) != 0 {
			t.Errorf("expected %q to have no children, got %d", r.Title, len(r.Children))
		}
	}
}

func TestFormat_ThreeLevelChain(t *testing.T) {
	doc := `{
		"0": [{"id":10,"title":"House","level":0,"children":[],"parent_id":null}],
		"1": [{"id":13,"title":"Wall","level":1,"children":[],"parent_id":10}],
		"2": [{"id":16,"title":"Door","level":2,"children":[],"parent_id":13}]}`
	roots, err := Format(json.RawMessage(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roots) != 1 || roots[0].ID != 10 {
		t.Fatalf("expected single root 10, got %v", Flatten(roots))
	}
	wall := roots[0].Children
	if len(wall) != 1 || wall[0].ID != 13 {
		t.Fatalf("expected root child 13, got %v", childIDs(roots[0]))
	}
	door := wall[0].Children
	if len(door) != 1 || door[0].ID != 16 {
		t.Fatalf("expected grandchild 16, got %v", childIDs(wall[0]))
	}
	if len(door[0].Children) != 0 {
		t.Errorf("expected leaf 16, got children %v", childIDs(door[0]))
	}
}

func TestFormat_MixedArrivalOrder(t *testing.T) {
	doc := `{
		"0": [{"id":10,"title":"House","level":0,"children":[],"parent_id":null}],
		"1": [
			{"id":12,"title":"Red Roof","level":1,"children":[],"parent_id":10},
			{"id":18,"title":"Blue Roof","level":1,"children":[],"parent_id":10},
			{"id":13,"title":"Wall","level":1,"children":[],"parent_id":10}]}`
	roots, err := Format(json.RawMessage(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := childIDs(roots[0]), []int64{12, 18, 13}; !equalIDs(got, want) {
		t.Errorf("expected children %v (arrival order), got %v", want, got)
	}
}

func TestFormat_BucketDocumentOrder(t *testing.T) {
	// Bucket "1" comes first in the document, so its entities register first.
	doc := `{
		"1": [{"id":2,"title":"b","level":1,"parent_id":1}],
		"0": [{"id":1,"title":"a","level":0,"parent_id":null},
		      {"id":3,"title":"c","level":1,"parent_id":1}]}`
	roots, err := Format(json.RawMessage(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := childIDs(roots[0]), []int64{2, 3}; !equalIDs(got, want) {
		t.Errorf("expected children %v, got %v", want, got)
	}
}

func TestFormat_LevelNotCheckedAgainstBucket(t *testing.T) {
	doc := `{"0": [{"id":1,"title":"a","level":5,"children":[],"parent_id":null}]}`
	roots, err := Format(json.RawMessage(doc))
	if err != nil {
		t.Fatalf("expected level/bucket mismatch to be accepted, got %v", err)
	}
	if roots[0].Level != 5 {
		t.Errorf("expected declared level 5, got %d", roots[0].Level)
	}
}

func TestFormat_MissingInput(t *testing.T) {
	for _, in := range []string{"", "   ", "null", "\n null \n"} {
		_, err := Format(json.RawMessage(in))
		if !errors.Is(err, ErrMissingInput) {
			t.Errorf("input %q: expected ErrMissingInput, got %v", in, err)
		}
		if Classify(err) != KindMissingInput {
			t.Errorf("input %q: expected kind %q, got %q", in, KindMissingInput, Classify(err))
		}
	}
}

func TestFormat_Failures(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		kind Kind
		msg  string
	}{
		{"non-integer key", `{"a": []}`, KindShapeInvalid, `bucket "a"`},
		{"value not array", `{"0": {"id": 1}}`, KindShapeInvalid, "must be an array"},
		{"empty title", `{"0": [{"id":1,"title":"","level":0,"parent_id":null}]}`, KindEntityInvalid, "title: must not be empty"},
		{"negative id", `{"0": [{"id":-1,"title":"a","level":0,"parent_id":null}]}`, KindEntityInvalid, "id: must be greater than or equal to 0"},
		{"dangling", `{"0": [{"id":1,"title":"a","level":0,"parent_id":null}], "1": [{"id":2,"title":"b","level":1,"parent_id":42}]}`, KindDanglingReference, "parent_id 42"},
		{"cycle", `{"0": [{"id":1,"title":"a","level":0,"parent_id":1}]}`, KindCyclicReference, "entity 1"},
		{"duplicate across buckets", `{"0": [{"id":1,"title":"a","level":0,"parent_id":null}], "1": [{"id":1,"title":"b","level":1,"parent_id":null}]}`, KindEntityInvalid, "duplicate id 1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			roots, err := Format(json.RawMessage(tc.doc))
			if roots != nil {
				t.Errorf("expected no tree, got %v", Flatten(roots))
			}
			if got := Classify(err); got != tc.kind {
				t.Fatalf("expected kind %q, got %q (%v)", tc.kind, got, err)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Errorf("expected error containing %q, got %q", tc.msg, err.Error())
			}
		})
	}
}

func TestFormat_EntityErrorLocation(t *testing.T) {
	doc := `{"0": [{"id":1,"title":"a","level":0,"parent_id":null}],
		"3": [{"id":2,"title":"b","level":1,"parent_id":1}, {"id":3,"level":1,"parent_id":1}]}`
	_, err := Format(json.RawMessage(doc))
	var ve *EntityValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected EntityValidationError, got %v", err)
	}
	if ve.Bucket != "3" || ve.Index != 1 || ve.Field != "title" {
		t.Errorf("expected bucket 3 index 1 field title, got %q %d %q", ve.Bucket, ve.Index, ve.Field)
	}
}

func TestFormat_ShapeBeforeEntities(t *testing.T) {
	// The whole document is shape-checked before any entity is validated.
	doc := `{"0": [{"id":-5,"title":"a","level":0,"parent_id":null}], "x": []}`
	_, err := Format(json.RawMessage(doc))
	if Classify(err) != KindShapeInvalid {
		t.Errorf("expected shape validation to run before entity validation, got %v", err)
	}
}

func TestFormat_ConcurrentCallsIsolated(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc := fmt.Sprintf(`{"0": [{"id":%d,"title":"root","level":0,"parent_id":null}],
				"1": [{"id":%d,"title":"leaf","level":1,"parent_id":%d}]}`, i*2, i*2+1, i*2)
			roots, err := Format(json.RawMessage(doc))
			if err != nil {
				errs <- err
				return
			}
			if ids := Flatten(roots); !equalIDs(ids, []int64{int64(i * 2), int64(i*2 + 1)}) {
				errs <- fmt.Errorf("call %d saw ids %v", i, ids)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{nil, KindOK},
		{ErrMissingInput, KindMissingInput},
		{&ShapeError{Msg: "x"}, KindShapeInvalid},
		{&EntityValidationError{Field: "id", Reason: "x"}, KindEntityInvalid},
		{fmt.Errorf("wrapped: %w", &DanglingReferenceError{ID: 1, ParentID: 2}), KindDanglingReference},
		{&CycleError{ID: 3}, KindCyclicReference},
		{errors.New("boom"), KindInternal},
	}
	for _, tc := range tests {
		if got := Classify(tc.err); got != tc.want {
			t.Errorf("Classify(%v): expected %q, got %q", tc.err, tc.want, got)
		}
	}
}
