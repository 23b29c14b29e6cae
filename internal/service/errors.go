package service

import "errors"

var (
	ErrInternal           = errors.New("internal server error")
	ErrInvalidPostText    = errors.New("post text is required and must be at most 1000 characters")
	ErrInvalidImageURL    = errors.New("please enter a valid URL")
	ErrInvalidName        = errors.New("name must be between 2 and 50 characters")
	ErrInvalidEmail       = errors.New("please enter a valid email address")
	ErrInvalidPassword    = errors.New("password must be between 6 and 100 characters")
	ErrUserExists         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotPostOwner       = errors.New("only the author can delete this post")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInitial     = errors.New("please enter exactly one character")
	ErrInvalidGender      = errors.New("unknown gender value")
	ErrInvalidDOB         = errors.New("date of birth must be YYYY-MM-DD")
)
