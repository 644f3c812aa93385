package schema

import (
	"fmt"
	"strings"
)

// Type identifies the semantic type of a field. The set is closed: both
// decode paths convert wire values into exactly these types.
type Type int

const (
	Bool Type = iota
	Int32
	Int64
	Float32
	Float64
	String
	Bytes
	Timestamp
	Date
	Decimal
	Struct
	List
)

func (t Type) String() string {
	switch t {
	case Bool:
		return "bool"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	case Timestamp:
		return "timestamp"
	case Date:
		return "date"
	case Decimal:
		return "decimal"
	case Struct:
		return "struct"
	case List:
		return "list"
	default:
		return "unknown"
	}
}

// Field describes one named, typed, nullable column.
// Fields is set for Struct types, Elem for List types.
type Field struct {
	Name     string
	Type     Type
	Nullable bool
	Fields   []Field
	Elem     *Field
}

// Schema is an ordered set of fields with O(1) lookup by name.
// Immutable after construction; safe for concurrent readers.
type Schema struct {
	fields []Field
	index  map[string]int
}

// New builds a schema from the given fields in declaration order.
func New(fields ...Field) *Schema {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f.Name] = i
	}
	return &Schema{fields: fields, index: index}
}

// NumFields returns the number of fields in the schema.
func (s *Schema) NumFields() int { return len(s.fields) }

// Field returns the field at position i.
func (s *Schema) Field(i int) Field { return s.fields[i] }

// Fields returns the fields in declaration order. The returned slice is
// shared; callers must not modify it.
func (s *Schema) Fields() []Field { return s.fields }

// FieldByName returns the field with the given name and whether it exists.
func (s *Schema) FieldByName(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// FieldIndex returns the position of the named field, or -1 if absent.
func (s *Schema) FieldIndex(name string) int {
	i, ok := s.index[name]
	if !ok {
		return -1
	}
	return i
}

func (s *Schema) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range s.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s:%s", f.Name, f.Type)
		if f.Nullable {
			b.WriteByte('?')
		}
	}
	b.WriteByte('}')
	return b.String()
}
