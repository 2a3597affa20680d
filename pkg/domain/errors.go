package domain

import "errors"

// error taxonomy shared by all core packages
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotFound            = errors.New("not found")
	ErrVersionConflict     = errors.New("version conflict")
	ErrJobNotClaimed       = errors.New("job not claimed by worker")
	ErrCostCeilingExceeded = errors.New("cost ceiling exceeded")
)
