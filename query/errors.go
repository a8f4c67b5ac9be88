package query

import "errors"

// ErrMissingData is returned when a response carries no object at the expected path
var ErrMissingData = errors.New("response carries no data")
