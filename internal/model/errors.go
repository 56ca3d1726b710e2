package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrBuildCancelled is returned when a build stops because its cancellation
	// token was triggered. It is never treated as a build failure.
	ErrBuildCancelled = errors.New("build cancelled")
)
