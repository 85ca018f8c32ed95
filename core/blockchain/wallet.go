package blockchain

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
)

// Wallet is a key pair and the address rewards are paid to.
type Wallet struct {
	PrivateKey *ecdsa.PrivateKey
	PublicKey  *ecdsa.PublicKey
	Address    string
}

// NewWallet generates a new P-256 key pair.
func NewWallet() (*Wallet, error) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("error generating private key for wallet: %w", err)
	}
	return ConstructWallet(privateKey)
}

// ConstructWallet derives the wallet address from privKey.
func ConstructWallet(privKey *ecdsa.PrivateKey) (*Wallet, error) {
	publicKey := &privKey.PublicKey
	pubKeyHash, err := PublicKeyToPubKeyHash(publicKey)
	if err != nil {
		return nil, err
	}

	return &Wallet{
		PrivateKey: privKey,
		PublicKey:  publicKey,
		Address:    PubKeyHashToAddress(pubKeyHash),
	}, nil
}
