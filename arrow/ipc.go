package arrow

import (
	"bytes"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
)

// The wire carries the schema and the record batch as separate byte
// payloads: the schema once per stream, each batch without a schema
// header. An IPC stream writer always emits the schema first and an
// end-of-stream marker last, so the helpers below split its output.

// streamTrailerLen is the length of the IPC end-of-stream marker.
const streamTrailerLen = 8

// SerializeSchema serializes a schema to its IPC message bytes, without
// the end-of-stream marker, so batch bytes can be appended when decoding.
func SerializeSchema(schema *arrow.Schema) ([]byte, error) {
	var buf bytes.Buffer
	writer := ipc.NewWriter(&buf, ipc.WithSchema(schema))
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to serialize schema: %w", err)
	}
	if buf.Len() < streamTrailerLen {
		return nil, fmt.Errorf("serialized schema too short: %d bytes", buf.Len())
	}
	return buf.Bytes()[:buf.Len()-streamTrailerLen], nil
}

// SerializeRecord serializes a record batch to its IPC message bytes with
// the schema header stripped, matching the per-batch payload shape.
func SerializeRecord(record arrow.Record) ([]byte, error) {
	schemaBytes, err := SerializeSchema(record.Schema())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := ipc.NewWriter(&buf, ipc.WithSchema(record.Schema()))
	if err := writer.Write(record); err != nil {
		return nil, fmt.Errorf("failed to write record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	if buf.Len() < len(schemaBytes) {
		return nil, fmt.Errorf("serialized stream shorter than its schema header")
	}
	return buf.Bytes()[len(schemaBytes):], nil
}
