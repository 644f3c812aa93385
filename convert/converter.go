package convert

import (
	"fmt"

	arrowlib "github.com/apache/arrow-go/v18/arrow"
	"github.com/linkedin/goavro/v2"

	"github.com/vandung-dev/readrows/arrow"
	"github.com/vandung-dev/readrows/avro"
	"github.com/vandung-dev/readrows/rows"
	"github.com/vandung-dev/readrows/schema"
	"github.com/vandung-dev/readrows/trace"
)

// Option configures a Converter at construction.
type Option func(*options)

type options struct {
	target *schema.Schema
	tracer trace.Tracer
	hook   trace.DebugHook
}

// WithTargetSchema declares a caller-provided output schema constraining
// column types and nullability (for example an explicit widening).
func WithTargetSchema(target *schema.Schema) Option {
	return func(o *options) { o.target = target }
}

// WithTracer injects an observer of byte, row and timing events.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) { o.tracer = tracer }
}

// WithDebugHook injects a receiver for wire fields absent from the
// warehouse schema. Row-oriented streams report them per decoded record
// with the decoded value; columnar streams carry the full column layout in
// the stream schema, so unknown columns are reported once at converter
// construction with their arrow type.
func WithDebugHook(hook trace.DebugHook) Option {
	return func(o *options) { o.hook = hook }
}

// Converter turns batch responses of one stream into row iterators. All
// per-stream state (reconciled schema, parsed format schema, projection,
// tracer) is resolved once at construction and bound read-only; Convert
// itself is pure dispatch plus iterator construction.
//
// A Converter is safe to share across goroutines converting different
// batches; the returned iterators are not.
type Converter struct {
	kind Kind
	out  *schema.Schema

	warehouse *schema.Schema
	codec     *goavro.Codec

	arrowSchema *arrowlib.Schema
	schemaBytes []byte
	projection  []int

	tracer trace.Tracer
	hook   trace.DebugHook
}

// NewAvro builds a converter for a row-oriented stream. The serialized
// Avro schema is parsed here, once; every batch reuses the codec.
func NewAvro(warehouse *schema.Schema, columns []string, rawSchema string, opts ...Option) (*Converter, error) {
	o := buildOptions(opts)
	out, err := schema.Reconcile(warehouse, columns, o.target)
	if err != nil {
		return nil, err
	}
	codec, err := avro.ParseSchema(rawSchema)
	if err != nil {
		return nil, err
	}
	return &Converter{
		kind:      KindAvro,
		out:       out,
		warehouse: warehouse,
		codec:     codec,
		tracer:    o.tracer,
		hook:      o.hook,
	}, nil
}

// NewArrow builds a converter for a columnar stream. The serialized Arrow
// schema is parsed here, once, and the output projection is resolved to
// column indices so per-batch construction does no name lookups.
func NewArrow(warehouse *schema.Schema, columns []string, serializedSchema []byte, opts ...Option) (*Converter, error) {
	o := buildOptions(opts)
	out, err := schema.Reconcile(warehouse, columns, o.target)
	if err != nil {
		return nil, err
	}
	parsed, err := arrow.ParseSchema(serializedSchema)
	if err != nil {
		return nil, err
	}
	projection := make([]int, len(columns))
	for i, name := range columns {
		indices := parsed.FieldIndices(name)
		if len(indices) == 0 {
			return nil, fmt.Errorf("%w: column %q not in arrow stream schema",
				schema.ErrSchemaMismatch, name)
		}
		projection[i] = indices[0]
	}
	if o.hook != nil {
		for i := 0; i < parsed.NumFields(); i++ {
			if f := parsed.Field(i); warehouse.FieldIndex(f.Name) < 0 {
				o.hook.UnknownField(f.Name, f.Type.String())
			}
		}
	}
	return &Converter{
		kind:        KindArrow,
		out:         out,
		warehouse:   warehouse,
		arrowSchema: parsed,
		schemaBytes: serializedSchema,
		projection:  projection,
		tracer:      o.tracer,
		hook:        o.hook,
	}, nil
}

// Convert constructs the row iterator for one batch response. It never
// decodes a row itself; the Avro path defers all decoding to the pulls,
// the Arrow path decodes the batch eagerly inside iterator construction.
// Safe to call repeatedly on the same response.
func (c *Converter) Convert(resp *Response) (rows.Iterator, error) {
	if resp.Kind() != c.kind {
		return nil, fmt.Errorf("stream decodes %s payloads, got %s", c.kind, resp.Kind())
	}
	switch resp.Kind() {
	case KindAvro:
		return avro.NewIterator(c.warehouse, c.out, c.codec, resp.data, c.tracer, c.hook), nil
	case KindArrow:
		return arrow.NewIterator(c.out, c.arrowSchema, c.schemaBytes, c.projection, resp.data, c.tracer)
	default:
		return nil, fmt.Errorf("unknown payload kind %d", resp.Kind())
	}
}

// BatchSizeInBytes returns the serialized byte length of the response's
// payload. Idempotent and side-effect free: it never touches iterator
// state and may be called before, during or after decoding.
func (c *Converter) BatchSizeInBytes(resp *Response) int {
	return resp.Size()
}

// OutputSchema returns the reconciled output schema the stream's rows
// follow.
func (c *Converter) OutputSchema() *schema.Schema { return c.out }

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
