// Package rows defines the structured row produced by the decode layer and
// the single-pass iterator contract both binary formats are exposed through.
package rows

// Row holds one decoded row's values, ordered per the reconciled output
// schema. A nil element is a NULL. Depending on the producing iterator a
// Row may be a view into batch-owned storage: it stays valid until the
// next call to Next on the iterator that produced it.
type Row []interface{}

// Iterator is a stateful, forward-only cursor over one batch's decoded
// rows. It is created per batch, never reused, and must not be shared
// between goroutines.
//
// Usage follows the usual scanning shape:
//
//	for it.Next() {
//	    row := it.Row()
//	    ...
//	}
//	if err := it.Err(); err != nil { ... }
//	it.Release()
type Iterator interface {
	// Next advances to the next row. It returns false at exhaustion or
	// on error; distinguish via Err.
	Next() bool

	// Row returns the current row. Only valid after a true Next and
	// until the following Next call.
	Row() Row

	// Err returns the first decode error encountered, or nil after a
	// clean exhaustion.
	Err() error

	// Release frees batch-owned decode buffers. Safe to call before
	// exhaustion (the consumer may stop pulling at any point) and more
	// than once.
	Release()
}
