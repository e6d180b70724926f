package domain

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNameTaken    = errors.New("name already taken")
	ErrNotFound     = errors.New("user not found")
)
