package blockchain

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/sebdeveloper6952/minledger/core/logger"
)

var log = logger.NewLogger()

// GenesisPrevHash stands in for the predecessor hash of the first block.
const GenesisPrevHash = "0@"

type BlockHeader struct {
	Timestamp  int64  `json:"timestamp"`
	Nonce      uint32 `json:"nonce"`
	Difficulty uint32 `json:"difficulty"`
	PrevHash   string `json:"prev_hash"`
	MerkleRoot string `json:"merkle_root"`
}

// CanonicalBytes encodes the header with a fixed key order.
func (h BlockHeader) CanonicalBytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"timestamp":`)
	buf.WriteString(strconv.FormatInt(h.Timestamp, 10))
	buf.WriteString(`,"nonce":`)
	buf.WriteString(strconv.FormatUint(uint64(h.Nonce), 10))
	buf.WriteString(`,"difficulty":`)
	buf.WriteString(strconv.FormatUint(uint64(h.Difficulty), 10))
	buf.WriteString(`,"prev_hash":`)
	writeJSONString(&buf, h.PrevHash)
	buf.WriteString(`,"merkle":`)
	writeJSONString(&buf, h.MerkleRoot)
	buf.WriteByte('}')
	return buf.Bytes()
}

type Block struct {
	Header       BlockHeader   `json:"header"`
	Count        uint32        `json:"count"`
	Transactions []Transaction `json:"transactions"`
}

func newBlock(header BlockHeader, txs []Transaction) *Block {
	return &Block{
		Header:       header,
		Count:        uint32(len(txs)),
		Transactions: txs,
	}
}

// Reward returns the leading reward transaction.
func (b *Block) Reward() (Transaction, bool) {
	if len(b.Transactions) == 0 || !b.Transactions[0].IsReward() {
		return Transaction{}, false
	}
	return b.Transactions[0], true
}

func (b *Block) checkCount() error {
	if int(b.Count) != len(b.Transactions) {
		return fmt.Errorf("%w: count %d, %d transactions", ErrCountMismatch, b.Count, len(b.Transactions))
	}
	return nil
}

// clone copies the block so callers can never reach sealed state.
func (b *Block) clone() Block {
	txs := make([]Transaction, len(b.Transactions))
	copy(txs, b.Transactions)
	return Block{
		Header:       b.Header,
		Count:        b.Count,
		Transactions: txs,
	}
}
