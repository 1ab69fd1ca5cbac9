package repository

import "errors"

var (
	ErrGuestClaimed         = errors.New("guest already linked to an account")
	ErrAccountAlreadyLinked = errors.New("account already linked to a guest")
)
