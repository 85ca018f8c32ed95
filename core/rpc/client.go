package rpc

import (
	"context"

	"github.com/filecoin-project/go-jsonrpc"
	"github.com/sebdeveloper6952/minledger/core/blockchain"
)

// Client mirrors RPCHandler for go-jsonrpc's reflection-based client.
type Client struct {
	GetBlockByHash    func(ctx context.Context, hash string) (*blockchain.Block, error)
	GetBlockByHeight  func(ctx context.Context, height uint64) (*blockchain.Block, error)
	LastHash          func(ctx context.Context) (string, error)
	Height            func(ctx context.Context) (uint64, error)
	SubmitTransaction func(ctx context.Context, sender, receiver string, amount float64) error
	MineBlock         func(ctx context.Context) (*blockchain.Block, error)
	SetDifficulty     func(ctx context.Context, difficulty uint32) error
	SetReward         func(ctx context.Context, reward float64) error
}

// NewClient connects to a node at addr, e.g. "http://localhost:8080/rpc/v0".
func NewClient(ctx context.Context, addr string) (*Client, jsonrpc.ClientCloser, error) {
	var client Client
	closer, err := jsonrpc.NewClient(ctx, addr, Namespace, &client, nil)
	if err != nil {
		return nil, nil, err
	}
	return &client, closer, nil
}
