package blockchain

import (
	"bytes"
	"fmt"
)

// RewardSender is the sender of every block reward transaction.
const RewardSender = "Root"

type Transaction struct {
	Sender   string  `json:"sender"`
	Receiver string  `json:"receiver"`
	Amount   float64 `json:"amount"`
}

func NewTransaction(sender, receiver string, amount float64) (Transaction, error) {
	if !validAmount(amount) {
		return Transaction{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	return Transaction{
		Sender:   sender,
		Receiver: receiver,
		Amount:   amount,
	}, nil
}

// NewRewardTx pays the block reward to the miner.
func NewRewardTx(minerAddress string, reward float64) Transaction {
	return Transaction{
		Sender:   RewardSender,
		Receiver: minerAddress,
		Amount:   reward,
	}
}

func (tx Transaction) IsReward() bool {
	return tx.Sender == RewardSender
}

// CanonicalBytes encodes the transaction as {"sender":..,"receiver":..,"amount":..}.
func (tx Transaction) CanonicalBytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"sender":`)
	writeJSONString(&buf, tx.Sender)
	buf.WriteString(`,"receiver":`)
	writeJSONString(&buf, tx.Receiver)
	buf.WriteString(`,"amount":`)
	buf.WriteString(formatAmount(tx.Amount))
	buf.WriteByte('}')
	return buf.Bytes()
}

func (tx Transaction) String() string {
	return fmt.Sprintf("%s -> %s: %s", tx.Sender, tx.Receiver, formatAmount(tx.Amount))
}
