// Package schema models the warehouse schema and reconciles it against a
// requested projection and an optional caller-provided target schema.
// This package implements:
// - The field type system shared by both decode paths
// - Ordered schemas with O(1) field lookup by name
// - Reconciliation of output column order, types and nullability
package schema
