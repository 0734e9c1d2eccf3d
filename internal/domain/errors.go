package domain

import "errors"

// ErrNoData is returned by feed sources that have nothing for the requested date.
var ErrNoData = errors.New("no NEO data found")
