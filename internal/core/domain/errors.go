package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("domain: not found")
	ErrNoFeatures     = errors.New("domain: no audio features provided")
	ErrUnauthorized   = errors.New("domain: missing or rejected access token")
	ErrLyricsNotFound = errors.New("domain: lyrics not found")
	ErrUpstream       = errors.New("domain: upstream failure")
	ErrBadResponse    = errors.New("domain: invalid upstream response")
)

// UpstreamStatusError reports a non-success HTTP status from an external service.
type UpstreamStatusError struct {
	Service string
	Status  int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Service, e.Status)
}

// Is lets callers match with errors.Is(err, ErrUpstream), and 401s with ErrUnauthorized.
func (e *UpstreamStatusError) Is(target error) bool {
	if target == ErrUpstream {
		return true
	}
	return target == ErrUnauthorized && e.Status == 401
}
