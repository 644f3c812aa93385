package arrow

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
)

// ErrSchemaParse is returned for malformed serialized Arrow schema bytes.
// It is fatal for the whole stream.
var ErrSchemaParse = errors.New("arrow schema parse error")

// ParseSchema parses a serialized Arrow schema (an IPC stream carrying a
// single schema message) into a schema handle. Parsed once per stream; the
// handle is immutable and shared read-only across the stream's iterators.
func ParseSchema(serialized []byte) (*arrow.Schema, error) {
	reader, err := ipc.NewReader(bytes.NewReader(serialized))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaParse, err)
	}
	defer reader.Release()
	return reader.Schema(), nil
}
