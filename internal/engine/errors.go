package engine

import "errors"

// ErrInvalidArgument is returned when a query argument is outside its
// allowed domain (unknown search field, negative result count). It is local
// to the query that carried it.
var ErrInvalidArgument = errors.New("invalid argument")
