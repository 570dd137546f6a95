package property

import (
	"testing"

	"github.com/nihei9/infergen/fut"
)

func TestRegistryRegisterIsIdempotentByName(t *testing.T) {
	r := NewRegistry()
	first := &Template{Name: "commutativity", Category: CategorySymmetry}
	second := &Template{Name: "commutativity", Category: CategoryAlgebraic}
	r.Register(first)
	r.Register(second)

	if len(r.All()) != 1 {
		t.Fatalf("want exactly one registered template, got %d", len(r.All()))
	}
	got, ok := r.ByName("commutativity")
	if !ok || got.Category != CategorySymmetry {
		t.Fatalf("want the first registration to win, got %+v", got)
	}
}

func TestRegistryCompatibleFiltersByArity(t *testing.T) {
	r := NewRegistry()
	r.Register(&Template{Name: "unary", Arity: 1, Compatibility: arityCompatible(1)})
	r.Register(&Template{Name: "binary", Arity: 2, Compatibility: arityCompatible(2)})

	f := &fut.FUT{ID: "f", Arity: 2}
	compat := r.Compatible(f)
	if len(compat) != 1 || compat[0].Name != "binary" {
		t.Fatalf("want only the arity-2 template, got %+v", compat)
	}
}

func TestMergeKeepsFirstOccurrence(t *testing.T) {
	a := NewRegistry()
	a.Register(&Template{Name: "dup", Category: CategorySymmetry})
	a.Register(&Template{Name: "only_a", Category: CategorySymmetry})

	b := NewRegistry()
	b.Register(&Template{Name: "dup", Category: CategoryAlgebraic})
	b.Register(&Template{Name: "only_b", Category: CategoryAlgebraic})

	merged := Merge(a, b)
	if len(merged.All()) != 3 {
		t.Fatalf("want 3 distinct names after merge, got %d", len(merged.All()))
	}
	dup, _ := merged.ByName("dup")
	if dup.Category != CategorySymmetry {
		t.Fatalf("want the earlier registry's definition to win on merge")
	}
}

func TestArithmeticBundlesExpectedCategories(t *testing.T) {
	r := Arithmetic()
	if len(r.ByCategory(CategorySymmetry)) == 0 {
		t.Fatalf("want Arithmetic() to include symmetry templates")
	}
	if len(r.ByCategory(CategoryAlgebraic)) == 0 {
		t.Fatalf("want Arithmetic() to include algebraic templates")
	}
	if len(r.ByCategory(CategoryIdentity)) == 0 {
		t.Fatalf("want Arithmetic() to include identity templates")
	}
}
