package tui

import (
	blkchn "github.com/sebdeveloper6952/minledger/core/blockchain"
)

// generateAddress creates a throwaway wallet so operators can paste a valid
// address into the transaction form when address validation is enabled.
func generateAddress() (string, error) {
	w, err := blkchn.NewWallet()
	if err != nil {
		return "", err
	}
	return w.Address, nil
}
