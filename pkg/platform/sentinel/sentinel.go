package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers
// return these (optionally wrapped) so services can translate them into
// domain errors.
//
// These represent factual states about resources, not validation failures:
//   - ErrNotFound: entity or event stream does not exist in store
//   - ErrConflict: uniqueness conflict on write
//   - ErrStaleVersion: append rejected because the expected stream version no
//     longer matches; the caller must replay the stream and retry the command
//   - ErrUnavailable: service or resource temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrStaleVersion = errors.New("stale version")
	ErrUnavailable  = errors.New("unavailable")
)
