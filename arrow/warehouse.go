package arrow

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/vandung-dev/readrows/schema"
)

// WarehouseSchema maps a parsed Arrow schema to the warehouse field model.
// Useful when no catalog schema is available out of band (rowcat does
// this); streams with a negotiated catalog schema pass that instead.
func WarehouseSchema(parsed *arrow.Schema) (*schema.Schema, error) {
	fields := make([]schema.Field, parsed.NumFields())
	for i := 0; i < parsed.NumFields(); i++ {
		f, err := warehouseField(parsed.Field(i))
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}
	return schema.New(fields...), nil
}

func warehouseField(af arrow.Field) (schema.Field, error) {
	f := schema.Field{Name: af.Name, Nullable: af.Nullable}
	switch t := af.Type.(type) {
	case *arrow.BooleanType:
		f.Type = schema.Bool
	case *arrow.Int32Type:
		f.Type = schema.Int32
	case *arrow.Int64Type:
		f.Type = schema.Int64
	case *arrow.Float32Type:
		f.Type = schema.Float32
	case *arrow.Float64Type:
		f.Type = schema.Float64
	case *arrow.StringType:
		f.Type = schema.String
	case *arrow.BinaryType:
		f.Type = schema.Bytes
	case *arrow.TimestampType:
		f.Type = schema.Timestamp
	case *arrow.Date32Type:
		f.Type = schema.Date
	case *arrow.Decimal128Type:
		f.Type = schema.Decimal
	case *arrow.StructType:
		f.Type = schema.Struct
		f.Fields = make([]schema.Field, t.NumFields())
		for i := 0; i < t.NumFields(); i++ {
			nf, err := warehouseField(t.Field(i))
			if err != nil {
				return schema.Field{}, err
			}
			f.Fields[i] = nf
		}
	case *arrow.ListType:
		f.Type = schema.List
		elem, err := warehouseField(t.ElemField())
		if err != nil {
			return schema.Field{}, err
		}
		f.Elem = &elem
	default:
		return schema.Field{}, fmt.Errorf("field %q: unsupported arrow type %s", af.Name, af.Type)
	}
	return f, nil
}
