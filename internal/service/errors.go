package service

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the parent of every validation error returned by the services.
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrTitleRequired = fmt.Errorf("%w: title is required", ErrInvalidInput)
	ErrNoFiles       = fmt.Errorf("%w: no files to upload", ErrInvalidInput)
)

// ErrForbidden is returned when an authenticated account is not an administrator.
var ErrForbidden = errors.New("forbidden")
