package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation           = errors.New("validation")             // 400
	ErrNotFound             = errors.New("not found")              // 404
	ErrConflict             = errors.New("conflict")               // 409
	ErrForbidden            = errors.New("forbidden")              // 403
	ErrInvalidCredentials   = errors.New("invalid credentials")    // 401
	ErrInvalidProviderToken = errors.New("invalid provider token") // 401
	ErrPaymentVerification  = errors.New("payment verification failed")
)

var (
	ErrDuplicateEmail    = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrDuplicateName     = fmt.Errorf("%w: name already taken", ErrConflict)
	ErrAlreadyReviewed   = fmt.Errorf("%w: You have already reviewed this artwork", ErrConflict)
	ErrInvalidTransition = fmt.Errorf("%w: status transition not allowed", ErrConflict)
)
