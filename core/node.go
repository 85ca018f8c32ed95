package core

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	blkchn "github.com/sebdeveloper6952/minledger/core/blockchain"
	"github.com/sebdeveloper6952/minledger/core/logger"
	"github.com/sebdeveloper6952/minledger/core/metrics"
	"github.com/sebdeveloper6952/minledger/core/rpc"
)

var log = logger.NewLogger()

// Node exposes a ledger over JSON-RPC and keeps its metrics current.
type Node struct {
	ledger   *blkchn.Ledger
	registry *prometheus.Registry
	metrics  *metrics.Collector
	events   chan blkchn.BlockSealedEvent
	subID    string
}

func NewNode(ledger *blkchn.Ledger, registry *prometheus.Registry) (*Node, error) {
	if ledger == nil {
		return nil, errors.New("ledger cannot be nil")
	}
	if registry == nil {
		return nil, errors.New("registry cannot be nil")
	}

	collector, err := metrics.NewCollector(registry, ledger)
	if err != nil {
		return nil, err
	}

	node := &Node{
		ledger:   ledger,
		registry: registry,
		metrics:  collector,
		events:   make(chan blkchn.BlockSealedEvent, 16),
		subID:    "metrics-" + uuid.NewString(),
	}
	if err := ledger.Events().Subscribe(node.subID, node.events); err != nil {
		return nil, err
	}
	return node, nil
}

func (n *Node) Ledger() *blkchn.Ledger {
	return n.ledger
}

// Start feeds sealed-block events to the metrics collector until ctx is done.
func (n *Node) Start(ctx context.Context) {
	go n.metrics.Run(ctx, n.events)
}

// Run starts the node and serves RPC and metrics on addr until ctx is done.
func (n *Node) Run(ctx context.Context, addr string) error {
	n.Start(ctx)
	log.Infof("Node started: height %d, last hash %s\n", n.ledger.Height(), n.ledger.LastHash())

	handler := rpc.NewRPCHandler(n)
	mux := rpc.NewServeMux(handler, promhttp.HandlerFor(n.registry, promhttp.HandlerOpts{}))
	err := rpc.StartRPC(ctx, addr, mux)

	log.Info("Cleaning Up...")
	n.Close()
	return err
}

func (n *Node) Close() {
	n.ledger.Events().UnSubscribe(n.subID)
}

func (n *Node) GetBlockByHash(hash string) (*blkchn.Block, error) {
	block, err := n.ledger.BlockByHash(hash)
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (n *Node) GetBlockByHeight(height uint64) (*blkchn.Block, error) {
	block, err := n.ledger.Block(height)
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (n *Node) LastHash() string {
	return n.ledger.LastHash()
}

func (n *Node) Height() uint64 {
	return n.ledger.Height()
}

func (n *Node) SubmitTransaction(sender, receiver string, amount float64) error {
	return n.ledger.NewTransaction(sender, receiver, amount)
}

// MineBlock assembles a block from the pool and returns it.
func (n *Node) MineBlock(ctx context.Context) (*blkchn.Block, error) {
	block, err := n.ledger.SealBlock(ctx)
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (n *Node) SetDifficulty(difficulty uint32) error {
	return n.ledger.UpdateDifficulty(difficulty)
}

func (n *Node) SetReward(reward float64) error {
	return n.ledger.UpdateReward(reward)
}
