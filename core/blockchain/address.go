package blockchain

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58/base58"
	"golang.org/x/crypto/ripemd160"
)

const checksumLen = 4

// PublicKeyToPubKeyHash hashes the public key with sha256 and then ripemd160.
func PublicKeyToPubKeyHash(pubKey *ecdsa.PublicKey) ([]byte, error) {
	pubkeyECDH, err := pubKey.ECDH()
	if err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}
	publicKeyBytes := pubkeyECDH.Bytes()

	sha256Hash := sha256.Sum256(publicKeyBytes)
	ripemd160Hasher := ripemd160.New()
	ripemd160Hasher.Write(sha256Hash[:])
	return ripemd160Hasher.Sum(nil), nil
}

// PubKeyHashToAddress appends a double-sha256 checksum and base58-encodes the result.
func PubKeyHashToAddress(pubKeyHash []byte) string {
	addressBytes := make([]byte, 0, len(pubKeyHash)+checksumLen)
	addressBytes = append(addressBytes, pubKeyHash...)
	addressBytes = append(addressBytes, checksum(pubKeyHash)...)
	return base58.Encode(addressBytes)
}

// AddressToPubKeyHash decodes a base58 address and verifies its checksum.
func AddressToPubKeyHash(address string) ([]byte, error) {
	addressBytes, err := base58.Decode(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, address, err)
	}
	if len(addressBytes) <= checksumLen {
		return nil, fmt.Errorf("%w: %q too short", ErrInvalidAddress, address)
	}

	pubKeyHash := addressBytes[:len(addressBytes)-checksumLen]
	if !bytes.Equal(addressBytes[len(addressBytes)-checksumLen:], checksum(pubKeyHash)) {
		return nil, fmt.Errorf("%w: %q checksum mismatch", ErrInvalidAddress, address)
	}
	return pubKeyHash, nil
}

func checksum(payload []byte) []byte {
	firstHash := sha256.Sum256(payload)
	secondHash := sha256.Sum256(firstHash[:])
	return secondHash[:checksumLen]
}

// AddressValidator only admits transactions whose sender and receiver are
// well-formed addresses. Reward transactions never pass through the pool.
var AddressValidator Validator = ValidatorFunc(func(tx Transaction) error {
	if _, err := AddressToPubKeyHash(tx.Sender); err != nil {
		return fmt.Errorf("sender: %w", err)
	}
	if _, err := AddressToPubKeyHash(tx.Receiver); err != nil {
		return fmt.Errorf("receiver: %w", err)
	}
	return nil
})
