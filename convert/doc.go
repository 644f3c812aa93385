// Package convert is the entry point of the decode layer. This package
// implements:
// - The batch-response envelope as a closed tagged variant
// - The per-stream Converter binding cached schema, projection and tracer
// - Exhaustive dispatch from payload kind to the matching row iterator
// - O(1) serialized byte sizing independent of decode progress
package convert
