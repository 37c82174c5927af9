package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInviteNotFound deliberately covers missing, expired and
	// already-consumed tokens so a probe cannot distinguish them.
	ErrInviteNotFound = errors.New("invitation not found or expired")

	// ErrInviteNotOwned covers both a token that does not exist and a
	// token owned by another issuer.
	ErrInviteNotOwned = errors.New("invitation not found")

	ErrEmailRegistered = errors.New("email already registered")
	ErrInvalidValidity = errors.New("validity days out of range")
	ErrForbidden       = errors.New("forbidden")
)

// HeadcountCeilingError rejects an employee invitation that would push a
// company past the configured seat ceiling.
type HeadcountCeilingError struct {
	Current   int64
	Requested int
	Ceiling   int
}

func (e *HeadcountCeilingError) Error() string {
	return fmt.Sprintf("headcount ceiling exceeded: %d current + %d requested > %d", e.Current, e.Requested, e.Ceiling)
}
