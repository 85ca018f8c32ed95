package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	blkchn "github.com/sebdeveloper6952/minledger/core/blockchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	height     uint64
	pending    int
	difficulty uint32
}

func (f fakeSource) Height() uint64     { return f.height }
func (f fakeSource) PendingCount() int  { return f.pending }
func (f fakeSource) Difficulty() uint32 { return f.difficulty }

func TestCollectorObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg, fakeSource{height: 3, pending: 2, difficulty: 4})
	require.NoError(t, err)

	c.Observe(blkchn.BlockSealedEvent{Height: 1, TxCount: 2, Attempts: 10})
	c.Observe(blkchn.BlockSealedEvent{Height: 2, TxCount: 1, Attempts: 5})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.BlocksSealed))
	assert.Equal(t, 15.0, testutil.ToFloat64(c.PowAttempts))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.Transactions))

	n, err := testutil.GatherAndCount(reg, "minledger_chain_height", "minledger_pending_transactions", "minledger_difficulty")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCollectorRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg, fakeSource{})
	require.NoError(t, err)
	_, err = NewCollector(reg, fakeSource{})
	assert.Error(t, err)
}

func TestCollectorRun(t *testing.T) {
	c, err := NewCollector(prometheus.NewRegistry(), fakeSource{})
	require.NoError(t, err)

	events := make(chan blkchn.BlockSealedEvent, 1)
	done := make(chan struct{})
	go func() {
		c.Run(context.Background(), events)
		close(done)
	}()

	events <- blkchn.BlockSealedEvent{TxCount: 1, Attempts: 3}
	close(events)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop after events closed")
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(c.BlocksSealed))
}
