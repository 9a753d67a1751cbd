package availability

import "errors"

var (
	// ErrDataSourceUnavailable marks a catalog or reservation query that failed.
	// The source contributes nothing to the result.
	ErrDataSourceUnavailable = errors.New("data source unavailable")
	// ErrNoSlotsDefined marks a weekday with no catalog entries.
	ErrNoSlotsDefined = errors.New("no slots defined for weekday")
)

// Source names a backing query that can degrade independently.
type Source string

const (
	SourceCatalog Source = "catalog"
	SourceExact   Source = "exact_reservations"
	SourceRanged  Source = "range_reservations"
)
