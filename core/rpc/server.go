package rpc

import (
	"context"

	"github.com/sebdeveloper6952/minledger/core/blockchain"
)

type server interface {
	GetBlockByHash(hash string) (*blockchain.Block, error)
	GetBlockByHeight(height uint64) (*blockchain.Block, error)
	LastHash() string
	Height() uint64
	SubmitTransaction(sender, receiver string, amount float64) error
	MineBlock(ctx context.Context) (*blockchain.Block, error)
	SetDifficulty(difficulty uint32) error
	SetReward(reward float64) error
}
