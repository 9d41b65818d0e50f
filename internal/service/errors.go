package service

import "errors"

var (
	ErrInvalidURL         = errors.New("invalid URL provided")
	ErrNotFound           = errors.New("URL not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidAccount     = errors.New("username must be 3-50 characters and password 6-72 bytes")
)
