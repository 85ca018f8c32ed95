package blockchain

import "errors"

var (
	ErrEmptyTransactionSet   = errors.New("empty transaction set")
	ErrInvalidDifficulty     = errors.New("invalid difficulty")
	ErrMalformedGenesisState = errors.New("malformed genesis state")
	ErrInvalidReward         = errors.New("invalid reward")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrMaxAttempts           = errors.New("proof-of-work attempt limit reached")
	ErrNonceExhausted        = errors.New("nonce space exhausted")
	ErrCountMismatch         = errors.New("transaction count mismatch")
	ErrBlockNotFound         = errors.New("block not found")
	ErrBrokenLink            = errors.New("previous hash mismatch")
	ErrInvalidAddress        = errors.New("invalid address")
)
