package service

import "errors"

var (
	ErrGuestNotFound        = errors.New("guest not found")
	ErrGuestAlreadyClaimed  = errors.New("guest already linked to an account")
	ErrAccountAlreadyLinked = errors.New("account already linked to a guest")
	ErrGuestNotLinked       = errors.New("no guest linked to this account")
	ErrInvalidRSVPStatus    = errors.New("invalid rsvp status")
	ErrInvalidGuest         = errors.New("invalid guest record")
	ErrInvalidIdentity      = errors.New("invalid account identity")
)
