package model

import "errors"

// Error taxonomy for the vesting engine. Every rejected call maps to one
// of these; transports translate them to status codes.
var (
	ErrInvalidAddress                = errors.New("invalid address")
	ErrAlreadyRegistered             = errors.New("address already registered")
	ErrOnlyOneDAOAllowed             = errors.New("dao pool already has its member")
	ErrNotRegistered                 = errors.New("address not registered")
	ErrNotVestingPeriod              = errors.New("vesting period has not started")
	ErrNotAllowedAfterVestingStarted = errors.New("registration closed after vesting start")
	ErrInvalidInput                  = errors.New("invalid input")
	ErrInsufficientContractFunds     = errors.New("insufficient contract funds")
	ErrAlreadyInitialized            = errors.New("already initialized")
	ErrNotInitialized                = errors.New("distribution not initialized")
)
