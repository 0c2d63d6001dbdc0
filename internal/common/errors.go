package common

import "errors"

var (
	// ErrLevelNotFound is returned when an operation references a price
	// that has no resting quantity.
	ErrLevelNotFound = errors.New("level not found")

	// ErrQtyExceedsAvailable is returned when a delete_qty would take a
	// level's quantity below zero.
	ErrQtyExceedsAvailable = errors.New("qty exceeds available")

	// ErrUpdateMissingValue is returned when a columnar event row is
	// missing a cell its shape requires.
	ErrUpdateMissingValue = errors.New("update missing required value")

	// ErrUnsupportedLevelCount is returned when a requested N falls
	// outside what a tracked top-N cache can hold.
	ErrUnsupportedLevelCount = errors.New("unsupported level count")
)
