package grid

import "errors"

// Error taxonomy shared by every query component. Callers classify with
// errors.Is; the HTTP layer maps the classes to status codes.
var (
	// ErrValidation marks malformed caller input (bad bbox, bad instant,
	// unknown component selector). Never retried, never partially executed.
	ErrValidation = errors.New("grid: invalid argument")

	// ErrNotFound marks a reference to a specific id that does not exist.
	// Distinct from an empty result set, which is a valid answer to a
	// filtered multi-row query.
	ErrNotFound = errors.New("grid: not found")

	// ErrDataIntegrity marks upstream data the query components refuse to
	// interpret (ancestry cycle, interval ending before it starts). Surfaced
	// rather than repaired so upstream quality problems stay visible.
	ErrDataIntegrity = errors.New("grid: data integrity")

	// ErrUpstreamUnavailable marks a missing or unreachable data snapshot.
	// The only retryable class.
	ErrUpstreamUnavailable = errors.New("grid: upstream unavailable")
)
