package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrAuthRequired     = errors.New("sign in required")
	ErrNoDraft          = errors.New("no booking in progress")
	ErrStepIncomplete   = errors.New("current step is incomplete")
	ErrInvalidStep      = errors.New("invalid wizard step")
	ErrProofRequired    = errors.New("payment proof is required for QR payments")
	ErrSubmitInProgress = errors.New("booking submission already in progress")
	ErrCacheMiss        = errors.New("cache miss")
)
