package avro

import (
	"encoding/json"
	"fmt"

	"github.com/vandung-dev/readrows/schema"
)

// avroField mirrors the subset of the Avro schema JSON needed to derive
// warehouse fields.
type avroField struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

type avroRecord struct {
	Type   string          `json:"type"`
	Name   string          `json:"name"`
	Fields []avroField     `json:"fields"`
	Items  json.RawMessage `json:"items"`
	// LogicalType refines long/bytes into timestamps, dates and decimals.
	LogicalType string `json:"logicalType"`
}

// WarehouseSchema maps a serialized Avro record schema to the warehouse
// field model. Useful when no catalog schema is available out of band
// (rowcat does this); streams with a negotiated catalog schema pass that
// instead.
func WarehouseSchema(raw string) (*schema.Schema, error) {
	var rec avroRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaParse, err)
	}
	if rec.Type != "record" {
		return nil, fmt.Errorf("%w: top-level schema is %q, want record", ErrSchemaParse, rec.Type)
	}
	fields, err := warehouseFields(rec.Fields)
	if err != nil {
		return nil, err
	}
	return schema.New(fields...), nil
}

func warehouseFields(avroFields []avroField) ([]schema.Field, error) {
	fields := make([]schema.Field, len(avroFields))
	for i, af := range avroFields {
		f, err := warehouseField(af.Name, af.Type)
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}
	return fields, nil
}

func warehouseField(name string, rawType json.RawMessage) (schema.Field, error) {
	f := schema.Field{Name: name}

	// A union type is a JSON array; ["null", T] marks a nullable T. Unions
	// over several concrete types have no single warehouse type.
	var union []json.RawMessage
	if err := json.Unmarshal(rawType, &union); err == nil {
		branches := 0
		for _, branch := range union {
			var branchName string
			if err := json.Unmarshal(branch, &branchName); err == nil && branchName == "null" {
				f.Nullable = true
				continue
			}
			branches++
			rawType = branch
		}
		if branches != 1 {
			return schema.Field{}, fmt.Errorf("%w: field %q: union with %d non-null branches",
				ErrSchemaParse, name, branches)
		}
	}

	// A primitive type is a bare JSON string; complex and logical types
	// are objects.
	var primitive string
	if err := json.Unmarshal(rawType, &primitive); err == nil {
		t, err := primitiveType(name, primitive, "")
		if err != nil {
			return schema.Field{}, err
		}
		f.Type = t
		return f, nil
	}

	var complexType avroRecord
	if err := json.Unmarshal(rawType, &complexType); err != nil {
		return schema.Field{}, fmt.Errorf("%w: field %q has unreadable type", ErrSchemaParse, name)
	}
	switch complexType.Type {
	case "record":
		nested, err := warehouseFields(complexType.Fields)
		if err != nil {
			return schema.Field{}, err
		}
		f.Type = schema.Struct
		f.Fields = nested
	case "array":
		elem, err := warehouseField(name+".item", complexType.Items)
		if err != nil {
			return schema.Field{}, err
		}
		f.Type = schema.List
		f.Elem = &elem
	default:
		t, err := primitiveType(name, complexType.Type, complexType.LogicalType)
		if err != nil {
			return schema.Field{}, err
		}
		f.Type = t
	}
	return f, nil
}

func primitiveType(name, avroType, logicalType string) (schema.Type, error) {
	switch logicalType {
	case "timestamp-micros", "timestamp-millis":
		return schema.Timestamp, nil
	case "date":
		return schema.Date, nil
	case "decimal":
		return schema.Decimal, nil
	}
	switch avroType {
	case "boolean":
		return schema.Bool, nil
	case "int":
		return schema.Int32, nil
	case "long":
		return schema.Int64, nil
	case "float":
		return schema.Float32, nil
	case "double":
		return schema.Float64, nil
	case "string":
		return schema.String, nil
	case "bytes":
		return schema.Bytes, nil
	}
	return 0, fmt.Errorf("%w: field %q: unsupported avro type %q", ErrSchemaParse, name, avroType)
}
