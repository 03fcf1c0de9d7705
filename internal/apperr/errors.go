// Package apperr holds sentinel errors shared across packages.
package apperr

import "errors"

var (
	ErrUnknownTarget = errors.New("unknown target")
	ErrDuplicateNote = errors.New("duplicate note name")
)
