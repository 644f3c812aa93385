package schema

import (
	"errors"
	"fmt"
)

// ErrSchemaMismatch is returned when a requested column cannot be resolved
// against the warehouse schema, or when the warehouse type of a column is
// not convertible to a caller-declared target type. It is a configuration
// error: fatal for the stream, never retried.
var ErrSchemaMismatch = errors.New("schema mismatch")

// Reconcile computes the authoritative output schema for a stream.
//
// Output column order follows columns, not warehouse declaration order.
// Each column takes its type and nullability from target when it is present
// there, otherwise from warehouse. target may be nil.
//
// Reconcile is pure and deterministic: callers compute it once per stream
// and reuse the result for every batch.
func Reconcile(warehouse *Schema, columns []string, target *Schema) (*Schema, error) {
	out := make([]Field, 0, len(columns))
	for _, name := range columns {
		wf, ok := warehouse.FieldByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: column %q not in warehouse schema %s",
				ErrSchemaMismatch, name, warehouse)
		}
		f := wf
		if target != nil {
			if tf, ok := target.FieldByName(name); ok {
				if err := checkConvertible(wf, tf); err != nil {
					return nil, err
				}
				f = tf
			}
		}
		out = append(out, f)
	}
	return New(out...), nil
}

// checkConvertible reports whether a warehouse field can be produced as the
// caller-declared field. Widening numeric conversions are allowed; a
// nullable warehouse column can never satisfy a non-nullable declaration.
func checkConvertible(from, to Field) error {
	if from.Nullable && !to.Nullable {
		return fmt.Errorf("%w: column %q is nullable in warehouse but declared non-nullable",
			ErrSchemaMismatch, from.Name)
	}
	if !convertible(from.Type, to.Type) {
		return fmt.Errorf("%w: column %q cannot convert %s to %s",
			ErrSchemaMismatch, from.Name, from.Type, to.Type)
	}
	return nil
}

func convertible(from, to Type) bool {
	if from == to {
		return true
	}
	switch from {
	case Int32:
		return to == Int64 || to == Float64
	case Float32:
		return to == Float64
	}
	return false
}
