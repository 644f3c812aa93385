package schema

import (
	"errors"
	"testing"
)

func warehouseFixture() *Schema {
	return New(
		Field{Name: "id", Type: Int64},
		Field{Name: "name", Type: String, Nullable: true},
		Field{Name: "score", Type: Float64, Nullable: true},
	)
}

func TestReconcileProjectionOrder(t *testing.T) {
	out, err := Reconcile(warehouseFixture(), []string{"score", "id"}, nil)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if out.NumFields() != 2 {
		t.Fatalf("Expected 2 output fields, got %d", out.NumFields())
	}
	if out.Field(0).Name != "score" || out.Field(1).Name != "id" {
		t.Errorf("Output order should follow the projection, got %s", out)
	}
	if out.Field(0).Type != Float64 || out.Field(1).Type != Int64 {
		t.Errorf("Types should come from the warehouse schema, got %s", out)
	}
}

func TestReconcileAbsentColumn(t *testing.T) {
	_, err := Reconcile(warehouseFixture(), []string{"name", "missing"}, nil)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("Expected ErrSchemaMismatch for absent column, got %v", err)
	}
}

func TestReconcileTargetOverride(t *testing.T) {
	target := New(Field{Name: "id", Type: Float64})
	out, err := Reconcile(warehouseFixture(), []string{"id", "name"}, target)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if out.Field(0).Type != Float64 {
		t.Errorf("id: expected target type float64, got %s", out.Field(0).Type)
	}
	// name is not in the target schema, so the warehouse type applies.
	if out.Field(1).Type != String {
		t.Errorf("name: expected warehouse type string, got %s", out.Field(1).Type)
	}
}

func TestReconcileNonNullableTarget(t *testing.T) {
	// The warehouse declares score nullable; a non-nullable declaration
	// can never be satisfied and must fail deterministically.
	target := New(Field{Name: "score", Type: Float64, Nullable: false})
	for i := 0; i < 3; i++ {
		_, err := Reconcile(warehouseFixture(), []string{"score"}, target)
		if !errors.Is(err, ErrSchemaMismatch) {
			t.Fatalf("Run %d: expected ErrSchemaMismatch, got %v", i, err)
		}
	}
}

func TestConvertible(t *testing.T) {
	tests := []struct {
		from, to Type
		ok       bool
	}{
		{Int64, Int64, true},
		{Int32, Int64, true},
		{Int32, Float64, true},
		{Float32, Float64, true},
		{Int64, Int32, false},
		{Float64, Float32, false},
		{String, Int64, false},
		{Int64, Float64, false},
	}
	for _, tt := range tests {
		if got := convertible(tt.from, tt.to); got != tt.ok {
			t.Errorf("convertible(%s, %s): expected %v, got %v", tt.from, tt.to, tt.ok, got)
		}
	}
}
