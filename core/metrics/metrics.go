package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	blkchn "github.com/sebdeveloper6952/minledger/core/blockchain"
)

const namespace = "minledger"

// Source is the read side of the ledger the gauges sample.
type Source interface {
	Height() uint64
	PendingCount() int
	Difficulty() uint32
}

type Collector struct {
	BlocksSealed prometheus.Counter
	PowAttempts  prometheus.Counter
	Transactions prometheus.Counter
}

// NewCollector registers the ledger metrics on reg.
func NewCollector(reg prometheus.Registerer, src Source) (*Collector, error) {
	c := &Collector{
		BlocksSealed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_sealed_total",
			Help:      "Blocks sealed and appended to the ledger.",
		}),
		PowAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pow_attempts_total",
			Help:      "Header hashes computed by successful proof-of-work searches.",
		}),
		Transactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_sealed_total",
			Help:      "Transactions included in sealed blocks, rewards included.",
		}),
	}

	collectors := []prometheus.Collector{
		c.BlocksSealed,
		c.PowAttempts,
		c.Transactions,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chain_height",
			Help:      "Index of the newest block.",
		}, func() float64 { return float64(src.Height()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_transactions",
			Help:      "Transactions waiting in the pool.",
		}, func() float64 { return float64(src.PendingCount()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "difficulty",
			Help:      "Difficulty applied to the next block.",
		}, func() float64 { return float64(src.Difficulty()) }),
	}
	for _, col := range collectors {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) Observe(ev blkchn.BlockSealedEvent) {
	c.BlocksSealed.Inc()
	c.PowAttempts.Add(float64(ev.Attempts))
	c.Transactions.Add(float64(ev.TxCount))
}

// Run observes events until ctx is done or events is closed.
func (c *Collector) Run(ctx context.Context, events <-chan blkchn.BlockSealedEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.Observe(ev)
		}
	}
}
