package avro

import (
	"fmt"
	"math/big"
	"time"

	"github.com/vandung-dev/readrows/rows"
	"github.com/vandung-dev/readrows/schema"
)

// convertValue maps one Avro-native value (as produced by goavro) to the
// reconciled output type of its column. Nullable columns arrive as unions:
// the null branch decodes to nil, any other branch to a single-entry map
// keyed by the branch name, which is unwrapped first.
func convertValue(native interface{}, field schema.Field) (interface{}, error) {
	if native == nil {
		return nil, nil
	}
	if m, ok := native.(map[string]interface{}); ok && len(m) == 1 && isUnionWrapper(m, field) {
		for _, branch := range m {
			native = branch
		}
		if native == nil {
			return nil, nil
		}
	}

	switch field.Type {
	case schema.Bool:
		if v, ok := native.(bool); ok {
			return v, nil
		}
	case schema.Int32:
		if v, ok := native.(int32); ok {
			return v, nil
		}
	case schema.Int64:
		switch v := native.(type) {
		case int64:
			return v, nil
		case int32:
			return int64(v), nil
		}
	case schema.Float32:
		if v, ok := native.(float32); ok {
			return v, nil
		}
	case schema.Float64:
		switch v := native.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case int32:
			return float64(v), nil
		}
	case schema.String:
		if v, ok := native.(string); ok {
			return v, nil
		}
	case schema.Bytes:
		if v, ok := native.([]byte); ok {
			return v, nil
		}
	case schema.Timestamp:
		switch v := native.(type) {
		case time.Time:
			return v, nil
		case int64:
			// Raw long without the logical-type annotation: microseconds
			// since epoch, per the warehouse wire contract.
			return time.UnixMicro(v).UTC(), nil
		}
	case schema.Date:
		switch v := native.(type) {
		case time.Time:
			return v, nil
		case int32:
			return time.Unix(int64(v)*86400, 0).UTC(), nil
		}
	case schema.Decimal:
		switch v := native.(type) {
		case *big.Rat:
			return v, nil
		case []byte:
			return v, nil
		}
	case schema.Struct:
		if m, ok := native.(map[string]interface{}); ok {
			nested := make(rows.Row, len(field.Fields))
			for i, nf := range field.Fields {
				v, err := convertValue(m[nf.Name], nf)
				if err != nil {
					return nil, err
				}
				nested[i] = v
			}
			return nested, nil
		}
	case schema.List:
		if items, ok := native.([]interface{}); ok {
			if field.Elem == nil {
				return nil, fmt.Errorf("column %q: list type without element type", field.Name)
			}
			out := make([]interface{}, len(items))
			for i, item := range items {
				v, err := convertValue(item, *field.Elem)
				if err != nil {
					return nil, err
				}
				out[i] = v
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("column %q: cannot convert avro value %T to %s",
		field.Name, native, field.Type)
}

// isUnionWrapper reports whether a one-entry map is goavro's union wrapper
// rather than a decoded record. Only struct columns decode to maps of their
// own; their wrapper is keyed by the record's type name, never by one of
// the declared field names.
func isUnionWrapper(m map[string]interface{}, field schema.Field) bool {
	if field.Type != schema.Struct {
		return true
	}
	for key := range m {
		for _, nf := range field.Fields {
			if nf.Name == key {
				return false
			}
		}
	}
	return true
}
