package errors

import "github.com/pkg/errors"

var (
	// webhook errors
	ErrDuplicateDelivery = errors.New("message already processed")

	// post errors
	ErrPostNotFound = errors.New("post not found")

	// collection errors
	ErrCollectionNotFound = errors.New("collection not found")

	// storage errors
	ErrObjectExists = errors.New("object already exists")
)
