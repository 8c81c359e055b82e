package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("an account with this email already exists")
	ErrClinicNotFound    = errors.New("clinic not found")
)
