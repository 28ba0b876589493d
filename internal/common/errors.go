// Package common holds the error sentinels and context helpers shared
// across the pipeline packages.
package common

import "errors"

// Sentinel errors for the failure classes callers branch on. Wrap with
// fmt.Errorf("%w: ...", ...) so errors.Is keeps working through the chain.
var (
	ErrInvalidPDF = errors.New("invalid or unreadable PDF")
	ErrService    = errors.New("external service failure")
	ErrDatabase   = errors.New("database error")
)
