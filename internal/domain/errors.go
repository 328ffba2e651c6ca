package domain

import "errors"

// ErrNotFound is returned by single-record reads when no record matches
var ErrNotFound = errors.New("not found")

// NoID is reported alongside results that did not produce or locate a record
const NoID = -1
