package domain

import (
	"errors"
)

// Ошибки слоя хранения.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrUnknown        = errors.New("unknown error")
)

// Бизнес ошибки.
var (
	ErrValidation         = errors.New("validation failed")
	ErrAlreadyExists      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidAmount      = errors.New("invalid amount")
)
