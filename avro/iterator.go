package avro

import (
	"errors"
	"fmt"
	"time"

	"github.com/linkedin/goavro/v2"

	"github.com/vandung-dev/readrows/rows"
	"github.com/vandung-dev/readrows/schema"
	"github.com/vandung-dev/readrows/trace"
)

// ErrTruncatedRecord is returned when a payload ends mid-record. It is
// fatal for the batch that produced it; other batches of the stream are
// unaffected.
var ErrTruncatedRecord = errors.New("truncated avro record")

// Iterator is a single-pass cursor over one row-oriented payload. Records
// are decoded sequentially, one per Next call; nothing is materialized up
// front. Not safe for concurrent use.
type Iterator struct {
	codec     *goavro.Codec
	warehouse *schema.Schema
	out       *schema.Schema

	payload   []byte
	remaining []byte
	cur       rows.Row
	err       error

	tracer trace.Tracer
	hook   trace.DebugHook

	rowsDecoded int
	decodeTime  time.Duration
	finished    bool
}

// NewIterator creates an iterator over one serialized payload. The codec
// and schemas are the stream's cached handles; they are read, never
// modified. The tracer observes the payload length immediately.
func NewIterator(warehouse, out *schema.Schema, codec *goavro.Codec, payload []byte, tracer trace.Tracer, hook trace.DebugHook) *Iterator {
	if tracer == nil {
		tracer = trace.Nop()
	}
	tracer.BatchStarted(len(payload))
	return &Iterator{
		codec:     codec,
		warehouse: warehouse,
		out:       out,
		payload:   payload,
		remaining: payload,
		tracer:    tracer,
		hook:      hook,
	}
}

// Next decodes the next record from the current cursor position. It
// returns false once the buffer is fully consumed, or on error.
func (it *Iterator) Next() bool {
	if it.err != nil || it.finished {
		return false
	}
	if len(it.remaining) == 0 {
		it.finish()
		return false
	}

	start := time.Now()
	native, rest, err := it.codec.NativeFromBinary(it.remaining)
	it.decodeTime += time.Since(start)
	if err != nil {
		offset := len(it.payload) - len(it.remaining)
		it.err = fmt.Errorf("%w: at byte offset %d: %v", ErrTruncatedRecord, offset, err)
		it.finish()
		return false
	}
	it.remaining = rest

	record, ok := native.(map[string]interface{})
	if !ok {
		it.err = fmt.Errorf("avro payload is not a record stream: decoded %T", native)
		it.finish()
		return false
	}

	row := make(rows.Row, it.out.NumFields())
	for i := 0; i < it.out.NumFields(); i++ {
		field := it.out.Field(i)
		value, err := convertValue(record[field.Name], field)
		if err != nil {
			it.err = err
			it.finish()
			return false
		}
		row[i] = value
	}
	if it.hook != nil {
		for name, value := range record {
			if it.warehouse.FieldIndex(name) < 0 {
				it.hook.UnknownField(name, value)
			}
		}
	}

	it.cur = row
	it.rowsDecoded++
	return true
}

// Row returns the row decoded by the last successful Next.
func (it *Iterator) Row() rows.Row { return it.cur }

// Err returns the first decode error, or nil after clean exhaustion.
func (it *Iterator) Err() error { return it.err }

// Release ends iteration early. The tracer still receives the counts for
// the rows decoded so far.
func (it *Iterator) Release() {
	it.finish()
}

func (it *Iterator) finish() {
	if it.finished {
		return
	}
	it.finished = true
	it.tracer.RowsParsed(it.rowsDecoded, it.decodeTime)
	it.tracer.BatchFinished()
}
