package avro

import (
	"errors"
	"fmt"

	"github.com/linkedin/goavro/v2"
)

// ErrSchemaParse is returned for a malformed serialized Avro schema. It is
// fatal for the whole stream: nothing can be decoded without a layout.
var ErrSchemaParse = errors.New("avro schema parse error")

// ParseSchema parses a serialized Avro schema into a codec. The codec is
// created once per stream and reused for every batch; it is immutable and
// safe for concurrent iterators over different batches.
func ParseSchema(raw string) (*goavro.Codec, error) {
	codec, err := goavro.NewCodec(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaParse, err)
	}
	return codec, nil
}
