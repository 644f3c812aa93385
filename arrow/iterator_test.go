package arrow

import (
	"errors"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/vandung-dev/readrows/schema"
)

func scoresArrowSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "name", Type: arrow.BinaryTypes.String},
		{Name: "score", Type: arrow.PrimitiveTypes.Float64},
	}, nil)
}

func scoresRecord(t *testing.T) arrow.Record {
	t.Helper()
	builder := array.NewRecordBuilder(memory.DefaultAllocator, scoresArrowSchema())
	defer builder.Release()

	builder.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2, 3}, nil)
	builder.Field(1).(*array.StringBuilder).AppendValues([]string{"a", "b", "c"}, nil)
	builder.Field(2).(*array.Float64Builder).AppendValues([]float64{0.1, 0.2, 0.3}, nil)

	return builder.NewRecord()
}

// wireBytes serializes a record the way the transport ships it: schema
// bytes once, batch bytes without a schema header.
func wireBytes(t *testing.T, record arrow.Record) (schemaBytes, batchBytes []byte) {
	t.Helper()
	schemaBytes, err := SerializeSchema(record.Schema())
	if err != nil {
		t.Fatalf("SerializeSchema failed: %v", err)
	}
	batchBytes, err = SerializeRecord(record)
	if err != nil {
		t.Fatalf("SerializeRecord failed: %v", err)
	}
	return schemaBytes, batchBytes
}

func TestIteratorRowCount(t *testing.T) {
	record := scoresRecord(t)
	defer record.Release()
	schemaBytes, batchBytes := wireBytes(t, record)

	parsed, err := ParseSchema(schemaBytes)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}

	out := schema.New(schema.Field{Name: "score", Type: schema.Float64})
	it, err := NewIterator(out, parsed, schemaBytes, []int{2}, batchBytes, nil)
	if err != nil {
		t.Fatalf("NewIterator failed: %v", err)
	}
	defer it.Release()

	want := []float64{0.1, 0.2, 0.3}
	for i, w := range want {
		if !it.Next() {
			t.Fatalf("Row %d: Next returned false, err=%v", i, it.Err())
		}
		row := it.Row()
		if len(row) != 1 || row[0] != w {
			t.Errorf("Row %d: expected [%v], got %v", i, w, row)
		}
	}
	if it.Next() {
		t.Error("Expected exhaustion after 3 rows")
	}
	if it.Err() != nil {
		t.Errorf("Expected clean exhaustion, got %v", it.Err())
	}
}

func TestIteratorProjectionReorder(t *testing.T) {
	record := scoresRecord(t)
	defer record.Release()
	schemaBytes, batchBytes := wireBytes(t, record)

	parsed, err := ParseSchema(schemaBytes)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}

	out := schema.New(
		schema.Field{Name: "name", Type: schema.String},
		schema.Field{Name: "id", Type: schema.Int64},
	)
	it, err := NewIterator(out, parsed, schemaBytes, []int{1, 0}, batchBytes, nil)
	if err != nil {
		t.Fatalf("NewIterator failed: %v", err)
	}
	defer it.Release()

	if !it.Next() {
		t.Fatalf("Next failed: %v", it.Err())
	}
	row := it.Row()
	if row[0] != "a" || row[1] != int64(1) {
		t.Errorf("Expected [a 1], got %v", row)
	}
}

func TestIteratorRowIsView(t *testing.T) {
	record := scoresRecord(t)
	defer record.Release()
	schemaBytes, batchBytes := wireBytes(t, record)

	parsed, err := ParseSchema(schemaBytes)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}

	out := schema.New(schema.Field{Name: "id", Type: schema.Int64})
	it, err := NewIterator(out, parsed, schemaBytes, []int{0}, batchBytes, nil)
	if err != nil {
		t.Fatalf("NewIterator failed: %v", err)
	}
	defer it.Release()

	if !it.Next() {
		t.Fatalf("Next failed: %v", it.Err())
	}
	view := it.Row()
	if !it.Next() {
		t.Fatalf("Next failed: %v", it.Err())
	}
	// The row is a view over batch-owned storage: the next pull
	// invalidates it.
	if view[0] != int64(2) {
		t.Errorf("Expected the view to be overwritten by the next pull, got %v", view[0])
	}
}

func TestIteratorMalformedBatch(t *testing.T) {
	record := scoresRecord(t)
	defer record.Release()
	schemaBytes, _ := wireBytes(t, record)

	parsed, err := ParseSchema(schemaBytes)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}

	out := schema.New(schema.Field{Name: "id", Type: schema.Int64})
	_, err = NewIterator(out, parsed, schemaBytes, []int{0}, []byte("not an ipc message"), nil)
	if !errors.Is(err, ErrMalformedRecordBatch) {
		t.Errorf("Expected ErrMalformedRecordBatch, got %v", err)
	}
}

func TestIteratorReleaseMidIteration(t *testing.T) {
	record := scoresRecord(t)
	defer record.Release()
	schemaBytes, batchBytes := wireBytes(t, record)

	parsed, err := ParseSchema(schemaBytes)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}

	out := schema.New(schema.Field{Name: "id", Type: schema.Int64})
	it, err := NewIterator(out, parsed, schemaBytes, []int{0}, batchBytes, nil)
	if err != nil {
		t.Fatalf("NewIterator failed: %v", err)
	}

	if !it.Next() {
		t.Fatalf("Next failed: %v", it.Err())
	}
	it.Release()
	it.Release() // safe to call twice

	if it.Next() {
		t.Error("Next after Release should report exhaustion")
	}
	if it.Err() != nil {
		t.Errorf("Release is not an error, got %v", it.Err())
	}
}

func TestIteratorWidening(t *testing.T) {
	arrowSchema := arrow.NewSchema([]arrow.Field{
		{Name: "count", Type: arrow.PrimitiveTypes.Int32},
	}, nil)
	builder := array.NewRecordBuilder(memory.DefaultAllocator, arrowSchema)
	defer builder.Release()
	builder.Field(0).(*array.Int32Builder).AppendValues([]int32{7}, nil)
	record := builder.NewRecord()
	defer record.Release()

	schemaBytes, batchBytes := wireBytes(t, record)
	parsed, err := ParseSchema(schemaBytes)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}

	out := schema.New(schema.Field{Name: "count", Type: schema.Int64})
	it, err := NewIterator(out, parsed, schemaBytes, []int{0}, batchBytes, nil)
	if err != nil {
		t.Fatalf("NewIterator failed: %v", err)
	}
	defer it.Release()

	if !it.Next() {
		t.Fatalf("Next failed: %v", it.Err())
	}
	if it.Row()[0] != int64(7) {
		t.Errorf("Expected int32 widened to int64(7), got %T %v", it.Row()[0], it.Row()[0])
	}
}

func TestParseSchemaRoundTrip(t *testing.T) {
	schemaBytes, err := SerializeSchema(scoresArrowSchema())
	if err != nil {
		t.Fatalf("SerializeSchema failed: %v", err)
	}
	parsed, err := ParseSchema(schemaBytes)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}
	if !parsed.Equal(scoresArrowSchema()) {
		t.Errorf("Round-tripped schema differs: %s", parsed)
	}
}

func TestParseSchemaError(t *testing.T) {
	_, err := ParseSchema([]byte{0x00, 0x01, 0x02})
	if !errors.Is(err, ErrSchemaParse) {
		t.Errorf("Expected ErrSchemaParse, got %v", err)
	}
}
