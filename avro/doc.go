// Package avro decodes row-oriented Avro payloads into structured rows.
// This package implements:
// - Per-stream parsing of the serialized Avro schema into a reusable codec
// - A lazy, single-pass iterator decoding one record per pull
// - Conversion of Avro-native values to the reconciled output types
package avro
