package index

import (
	"errors"
	"fmt"
)

// ErrStaleVersion is the base error for version-ordering violations.
// Data issues are reported by rejecting the Ingest call outright, not
// through a partial write — the index never observes a half-written
// symbol.
var ErrStaleVersion = errors.New("index: ingest version out of order")

// newStaleVersionError reports that uri's Ingest call supplied a
// version that is not current+1.
func newStaleVersionError(uri string, got, want int) error {
	return fmt.Errorf("%w: %s got version %d, want %d", ErrStaleVersion, uri, got, want)
}
