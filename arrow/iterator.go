package arrow

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"

	"github.com/vandung-dev/readrows/rows"
	"github.com/vandung-dev/readrows/schema"
	"github.com/vandung-dev/readrows/trace"
)

// ErrMalformedRecordBatch is returned when the declared schema and the
// physical buffer layout disagree. Detected eagerly at construction, so
// the caller learns of the failure before consuming any row.
var ErrMalformedRecordBatch = errors.New("malformed arrow record batch")

// Iterator is a single-pass cursor over one columnar payload. The record
// batch is decoded fully at construction; rows are produced lazily by
// transposing the projected columns at an advancing index. Not safe for
// concurrent use.
type Iterator struct {
	cols []arrow.Array
	out  *schema.Schema

	numRows int
	idx     int
	scratch rows.Row
	err     error

	tracer trace.Tracer

	started     time.Time
	rowsYielded int
	finished    bool
}

// NewIterator decodes one serialized record batch and returns a row
// cursor over it. The batch bytes carry no schema header of their own, so
// the stream's serialized schema bytes are prepended for the IPC reader
// (the parsed schema handle validates the result). projection maps each
// output column to its index in the parsed schema; only the projected
// columns are retained, the rest are dropped with the decoded record.
func NewIterator(out *schema.Schema, parsed *arrow.Schema, schemaBytes []byte, projection []int, batch []byte, tracer trace.Tracer) (*Iterator, error) {
	if tracer == nil {
		tracer = trace.Nop()
	}
	tracer.BatchStarted(len(batch))

	started := time.Now()
	reader, err := ipc.NewReader(io.MultiReader(bytes.NewReader(schemaBytes), bytes.NewReader(batch)))
	if err != nil {
		tracer.BatchFinished()
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecordBatch, err)
	}
	defer reader.Release()

	if !reader.Next() {
		tracer.BatchFinished()
		if reader.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRecordBatch, reader.Err())
		}
		return nil, fmt.Errorf("%w: no record batch in payload", ErrMalformedRecordBatch)
	}
	record := reader.Record()

	if err := validateRecord(record, parsed); err != nil {
		tracer.BatchFinished()
		return nil, err
	}

	numRows := int(record.NumRows())
	cols := make([]arrow.Array, len(projection))
	for i, p := range projection {
		col := record.Column(p)
		if col.Len() != numRows {
			releaseAll(cols[:i])
			tracer.BatchFinished()
			return nil, fmt.Errorf("%w: column %d has %d values, declared row count %d",
				ErrMalformedRecordBatch, p, col.Len(), numRows)
		}
		col.Retain()
		cols[i] = col
	}

	return &Iterator{
		cols:    cols,
		out:     out,
		numRows: numRows,
		idx:     -1,
		scratch: make(rows.Row, len(projection)),
		tracer:  tracer,
		started: started,
	}, nil
}

// validateRecord checks the decoded batch against the stream's parsed
// schema handle.
func validateRecord(record arrow.Record, parsed *arrow.Schema) error {
	actual := record.Schema()
	if actual.NumFields() != parsed.NumFields() {
		return fmt.Errorf("%w: field count mismatch: got %d, declared %d",
			ErrMalformedRecordBatch, actual.NumFields(), parsed.NumFields())
	}
	for i := 0; i < actual.NumFields(); i++ {
		af, pf := actual.Field(i), parsed.Field(i)
		if af.Name != pf.Name {
			return fmt.Errorf("%w: field %d name mismatch: got %s, declared %s",
				ErrMalformedRecordBatch, i, af.Name, pf.Name)
		}
		if !arrow.TypeEqual(af.Type, pf.Type) {
			return fmt.Errorf("%w: field %s type mismatch: got %s, declared %s",
				ErrMalformedRecordBatch, af.Name, af.Type, pf.Type)
		}
	}
	return nil
}

// Next advances the index cursor. It returns false after the last row or
// on a value conversion error.
func (it *Iterator) Next() bool {
	if it.err != nil || it.finished {
		return false
	}
	if it.idx+1 >= it.numRows {
		it.finish()
		return false
	}
	it.idx++

	// The scratch row is reused: the previous row's values are
	// overwritten, matching the view semantics of batch-owned storage.
	for i, col := range it.cols {
		v, err := columnValue(col, it.idx, it.out.Field(i))
		if err != nil {
			it.err = err
			it.finish()
			return false
		}
		it.scratch[i] = v
	}
	it.rowsYielded++
	return true
}

// Row returns the current row. It is a view over batch-owned storage:
// valid only until the next call to Next.
func (it *Iterator) Row() rows.Row { return it.scratch }

// Err returns the first error encountered, or nil after clean exhaustion.
func (it *Iterator) Err() error { return it.err }

// Release drops the retained column vectors. Safe to call mid-iteration
// and more than once.
func (it *Iterator) Release() {
	it.finish()
}

func (it *Iterator) finish() {
	if it.finished {
		return
	}
	it.finished = true
	releaseAll(it.cols)
	it.cols = nil
	it.tracer.RowsParsed(it.rowsYielded, time.Since(it.started))
	it.tracer.BatchFinished()
}

func releaseAll(cols []arrow.Array) {
	for _, col := range cols {
		if col != nil {
			col.Release()
		}
	}
}
