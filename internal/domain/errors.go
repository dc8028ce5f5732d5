package domain

import "errors"

// Domain errors. All of these are recoverable per artifact: the batch
// records them and continues.
var (
	ErrContactNotFound = errors.New("contact not found")
	ErrNoEmailOnFile   = errors.New("contact has no email address")
	ErrNoIdentifier    = errors.New("no identifier found in page text")
)
