package models

import "errors"

// Sentinel errors shared by the client, the service and the storage layer.
var (
	ErrNotFound            = errors.New("not found")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrDuplicateCategory   = errors.New("category already exists")
	ErrInvalidIngredientID = errors.New("invalid ingredient id")
	ErrMissingField        = errors.New("missing required field")
	ErrUnauthorized        = errors.New("not logged in")
	ErrForbidden           = errors.New("not the owner")
)
