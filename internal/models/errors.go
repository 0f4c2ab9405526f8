package models

import "errors"

// Domain transition errors returned by entity mutators.
var (
	ErrBookNotAvailable = errors.New("book is not available")
	ErrAlreadyReturned  = errors.New("book has been already returned")
)
