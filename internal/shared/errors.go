package shared

import "errors"

var (

	// common errors
	ErrNotFound = errors.New("not found")

	// auth-specific errors
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserAlreadyExists  = errors.New("username already exists")

	// pipeline-specific errors
	ErrValidation  = errors.New("validation error")
	ErrInvalidID   = errors.New("invalid file_id format")
	ErrStorage     = errors.New("object storage failure")
	ErrPersistence = errors.New("database operation failed")
	ErrCompletion  = errors.New("completing metadata record failed")
	ErrDecode      = errors.New("audio decode failed")
	ErrRecognition = errors.New("speech recognition failed")
)
