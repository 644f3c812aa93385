package arrow

import (
	"fmt"
	"math/big"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/vandung-dev/readrows/rows"
	"github.com/vandung-dev/readrows/schema"
)

// columnValue reads element i of a column vector and converts it to the
// reconciled output type of its column. Widening follows the same rules
// the reconciler allows (int32 to int64 or float64, float32 to float64).
func columnValue(col arrow.Array, i int, field schema.Field) (interface{}, error) {
	if col.IsNull(i) {
		return nil, nil
	}

	switch field.Type {
	case schema.Bool:
		if c, ok := col.(*array.Boolean); ok {
			return c.Value(i), nil
		}
	case schema.Int32:
		if c, ok := col.(*array.Int32); ok {
			return c.Value(i), nil
		}
	case schema.Int64:
		switch c := col.(type) {
		case *array.Int64:
			return c.Value(i), nil
		case *array.Int32:
			return int64(c.Value(i)), nil
		}
	case schema.Float32:
		if c, ok := col.(*array.Float32); ok {
			return c.Value(i), nil
		}
	case schema.Float64:
		switch c := col.(type) {
		case *array.Float64:
			return c.Value(i), nil
		case *array.Float32:
			return float64(c.Value(i)), nil
		case *array.Int64:
			return float64(c.Value(i)), nil
		case *array.Int32:
			return float64(c.Value(i)), nil
		}
	case schema.String:
		if c, ok := col.(*array.String); ok {
			return c.Value(i), nil
		}
	case schema.Bytes:
		if c, ok := col.(*array.Binary); ok {
			return c.Value(i), nil
		}
	case schema.Timestamp:
		if c, ok := col.(*array.Timestamp); ok {
			unit := c.DataType().(*arrow.TimestampType).Unit
			return c.Value(i).ToTime(unit).UTC(), nil
		}
	case schema.Date:
		if c, ok := col.(*array.Date32); ok {
			return c.Value(i).ToTime().UTC(), nil
		}
	case schema.Decimal:
		if c, ok := col.(*array.Decimal128); ok {
			scale := c.DataType().(*arrow.Decimal128Type).Scale
			denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)
			return new(big.Rat).SetFrac(c.Value(i).BigInt(), denom), nil
		}
	case schema.Struct:
		if c, ok := col.(*array.Struct); ok {
			if c.NumField() != len(field.Fields) {
				return nil, fmt.Errorf("%w: column %q struct has %d children, declared %d",
					ErrMalformedRecordBatch, field.Name, c.NumField(), len(field.Fields))
			}
			nested := make(rows.Row, len(field.Fields))
			for j := range field.Fields {
				v, err := columnValue(c.Field(j), i, field.Fields[j])
				if err != nil {
					return nil, err
				}
				nested[j] = v
			}
			return nested, nil
		}
	case schema.List:
		if c, ok := col.(*array.List); ok {
			if field.Elem == nil {
				return nil, fmt.Errorf("column %q: list type without element type", field.Name)
			}
			start, end := c.ValueOffsets(i)
			values := c.ListValues()
			out := make([]interface{}, 0, end-start)
			for j := start; j < end; j++ {
				v, err := columnValue(values, int(j), *field.Elem)
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: column %q: cannot read %s vector as %s",
		ErrMalformedRecordBatch, field.Name, col.DataType(), field.Type)
}
