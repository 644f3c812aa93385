package schema

import "testing"

func TestSchemaLookup(t *testing.T) {
	s := New(
		Field{Name: "id", Type: Int64},
		Field{Name: "name", Type: String, Nullable: true},
		Field{Name: "score", Type: Float64, Nullable: true},
	)

	if s.NumFields() != 3 {
		t.Errorf("Expected 3 fields, got %d", s.NumFields())
	}

	f, ok := s.FieldByName("name")
	if !ok {
		t.Fatal("FieldByName(name) not found")
	}
	if f.Type != String || !f.Nullable {
		t.Errorf("name: expected nullable string, got %s nullable=%v", f.Type, f.Nullable)
	}

	if idx := s.FieldIndex("score"); idx != 2 {
		t.Errorf("FieldIndex(score): expected 2, got %d", idx)
	}
	if idx := s.FieldIndex("missing"); idx != -1 {
		t.Errorf("FieldIndex(missing): expected -1, got %d", idx)
	}
}

func TestSchemaString(t *testing.T) {
	s := New(
		Field{Name: "id", Type: Int64},
		Field{Name: "name", Type: String, Nullable: true},
	)
	want := "{id:int64, name:string?}"
	if got := s.String(); got != want {
		t.Errorf("String(): expected %s, got %s", want, got)
	}
}
