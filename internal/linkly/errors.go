package linkly

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates the API key is invalid or has no access to the workspace.
	ErrUnauthorized = errors.New("linkly: unauthorized (api key invalid or revoked)")
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("linkly: rate limited")
	// ErrBadPoint marks a traffic point the API returned in an unusable shape.
	ErrBadPoint = errors.New("linkly: malformed traffic point")
)

// ProviderError is a failed call to the Linkly API: transport failure,
// timeout, non-2xx status, or an undecodable body. It is recoverable and
// scoped to the one call that produced it.
type ProviderError struct {
	Op     string // "list links" or "fetch traffic <id>"
	Status int    // HTTP status, 0 if no response was received
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("linkly: %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("linkly: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// DataShapeError describes a single malformed element of an otherwise
// valid payload. The element is dropped; the rest of the payload is kept.
type DataShapeError struct {
	LinkID string
	Index  int    // position in the traffic array
	Raw    string // offending value, truncated
	Err    error
}

func (e *DataShapeError) Error() string {
	raw := e.Raw
	if len(raw) > 64 {
		raw = raw[:64] + "..."
	}
	return fmt.Sprintf("linkly: link %s point %d (%s): %v", e.LinkID, e.Index, raw, e.Err)
}

func (e *DataShapeError) Unwrap() error {
	return e.Err
}
