package blockchain

import (
	"context"
	"fmt"
	"math"
	"strconv"
)

// ctxCheckInterval is how many nonces are tried between context checks.
const ctxCheckInterval = 1024

type Miner struct {
	hasher      Hasher
	maxAttempts uint64 // 0 means unbounded
}

// SealResult describes a successful proof-of-work search.
type SealResult struct {
	Hash     string
	Attempts uint64
}

func NewMiner(hasher Hasher, maxAttempts uint64) *Miner {
	return &Miner{
		hasher:      hasher,
		maxAttempts: maxAttempts,
	}
}

// ValidateDifficulty rejects difficulties the sealing predicate can never satisfy.
// Zero takes an empty digest prefix which never parses, and anything longer than
// the rendered digest has no prefix to take.
func ValidateDifficulty(difficulty uint32, h Hasher) error {
	if difficulty == 0 {
		return fmt.Errorf("%w: must be at least 1", ErrInvalidDifficulty)
	}
	if int(difficulty) > h.MaxDigestLen() {
		return fmt.Errorf("%w: %d exceeds digest length %d", ErrInvalidDifficulty, difficulty, h.MaxDigestLen())
	}
	return nil
}

// IsSealed reports whether the first difficulty characters of hash parse as the
// decimal number zero.
func IsSealed(hash string, difficulty uint32) bool {
	if difficulty == 0 || len(hash) < int(difficulty) {
		return false
	}
	v, err := strconv.ParseUint(hash[:difficulty], 10, 64)
	return err == nil && v == 0
}

// Seal increments header.Nonce until the header hash satisfies IsSealed.
// The header keeps the winning nonce on success.
func (m *Miner) Seal(ctx context.Context, header *BlockHeader) (SealResult, error) {
	if err := ValidateDifficulty(header.Difficulty, m.hasher); err != nil {
		return SealResult{}, err
	}

	var attempts uint64
	for {
		if attempts%ctxCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return SealResult{Attempts: attempts}, fmt.Errorf("mining aborted at nonce %d: %w", header.Nonce, ctx.Err())
			default:
			}
		}

		hash := m.hasher.Hash(header)
		attempts++
		if IsSealed(hash, header.Difficulty) {
			log.Infof("Block hash: %s (nonce %d)\n", hash, header.Nonce)
			return SealResult{Hash: hash, Attempts: attempts}, nil
		}

		if m.maxAttempts > 0 && attempts >= m.maxAttempts {
			return SealResult{Attempts: attempts}, fmt.Errorf("%w: %d", ErrMaxAttempts, attempts)
		}
		if header.Nonce == math.MaxUint32 {
			return SealResult{Attempts: attempts}, ErrNonceExhausted
		}
		header.Nonce++
	}
}
