package convert

import (
	"fmt"

	"github.com/golang/snappy"
)

// Kind discriminates the payload variant carried by a Response. The set
// is closed: dispatch over it is exhaustive.
type Kind int

const (
	// KindAvro marks a row-oriented payload of sequentially encoded records.
	KindAvro Kind = iota
	// KindArrow marks a columnar payload holding one serialized record batch.
	KindArrow
)

func (k Kind) String() string {
	switch k {
	case KindAvro:
		return "avro"
	case KindArrow:
		return "arrow"
	default:
		return "unknown"
	}
}

// Response is the opaque envelope handed over by the transport: exactly
// one serialized payload plus its kind. Immutable; Convert never mutates
// it, so it may be converted and sized repeatedly.
type Response struct {
	kind Kind
	data []byte
}

// NewAvroResponse wraps a serialized row-oriented payload.
func NewAvroResponse(serialized []byte) *Response {
	return &Response{kind: KindAvro, data: serialized}
}

// NewArrowResponse wraps a serialized columnar payload.
func NewArrowResponse(serialized []byte) *Response {
	return &Response{kind: KindArrow, data: serialized}
}

// Kind returns the payload variant.
func (r *Response) Kind() Kind { return r.kind }

// Size returns the serialized byte length of the payload. O(1), never
// triggers decoding.
func (r *Response) Size() int { return len(r.data) }

// DecompressArrowResponse builds an already-decompressed columnar Response
// from a snappy-compressed payload. Decompression is a transport-side
// responsibility: the decode core only ever sees the result.
func DecompressArrowResponse(compressed []byte, uncompressedSize int) (*Response, error) {
	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress record batch: %w", err)
	}
	if uncompressedSize > 0 && len(data) != uncompressedSize {
		return nil, fmt.Errorf("decompressed size %d does not match stated size %d",
			len(data), uncompressedSize)
	}
	return NewArrowResponse(data), nil
}
