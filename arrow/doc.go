// Package arrow decodes columnar Arrow record-batch payloads into
// structured rows. This package implements:
// - Per-stream parsing of the serialized Arrow schema
// - IPC serialization helpers producing wire-shaped schema and batch bytes
// - An eagerly-decoded, lazily-transposed row iterator over one batch
package arrow
