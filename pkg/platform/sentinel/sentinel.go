package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Clients and stores return these
// (optionally wrapped) so the screening layer can decide whether a failure is
// absorbed as "no evidence" or surfaced to the caller.
//
//   - ErrNotFound: the upstream has no record for the queried name
//   - ErrUnavailable: the upstream is unreachable, timed out or circuit-open
//   - ErrMalformed: the upstream answered with data we cannot interpret
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrMalformed   = errors.New("malformed")
)
