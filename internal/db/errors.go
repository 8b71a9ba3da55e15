package db

import "errors"

// Domain-level database error sentinels.
var (
	ErrTrendNotFound = errors.New("trend not found")
)
