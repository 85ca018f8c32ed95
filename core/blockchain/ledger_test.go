package blockchain

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedClock = func() time.Time { return time.Unix(1700000000, 0) }

func newTestLedger(t *testing.T, opts ...Option) *Ledger {
	t.Helper()
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	l, err := NewLedger(context.Background(), "minerA", 1, opts...)
	require.NoError(t, err)
	return l
}

func TestNewLedgerMinesGenesis(t *testing.T) {
	l := newTestLedger(t)

	blocks := l.Blocks()
	require.Len(t, blocks, 1)
	genesis := blocks[0]
	assert.Equal(t, uint32(1), genesis.Count)
	assert.Equal(t, []Transaction{{Sender: "Root", Receiver: "minerA", Amount: 100}}, genesis.Transactions)
	assert.Equal(t, GenesisPrevHash, genesis.Header.PrevHash)
	assert.Equal(t, uint32(1), genesis.Header.Difficulty)
	assert.Equal(t, int64(1700000000), genesis.Header.Timestamp)
	assert.Equal(t, uint64(0), l.Height())
	assert.NoError(t, l.Verify())
}

func TestGenerateBlockLinksToPredecessor(t *testing.T) {
	l := newTestLedger(t)
	genesisHash := l.LastHash()

	require.NoError(t, l.NewTransaction("Alice", "Bob", 10))
	require.NoError(t, l.GenerateBlock(context.Background()))

	blocks := l.Blocks()
	require.Len(t, blocks, 2)
	b := blocks[1]
	assert.Equal(t, uint32(2), b.Count)
	assert.Equal(t, []Transaction{
		{Sender: "Root", Receiver: "minerA", Amount: 100},
		{Sender: "Alice", Receiver: "Bob", Amount: 10},
	}, b.Transactions)
	assert.Equal(t, genesisHash, b.Header.PrevHash)
	assert.Equal(t, l.Hasher().Hash(blocks[0].Header), b.Header.PrevHash)
	assert.Equal(t, l.Hasher().Hash(b.Header), l.LastHash())
	assert.Equal(t, 0, l.PendingCount())
}

func TestUpdateRewardAppliesToLaterBlocks(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.UpdateReward(50))
	require.NoError(t, l.NewTransaction("Alice", "Bob", 10))
	require.NoError(t, l.GenerateBlock(context.Background()))

	blocks := l.Blocks()
	reward, ok := blocks[1].Reward()
	require.True(t, ok)
	assert.Equal(t, 50.0, reward.Amount)

	genesisReward, ok := blocks[0].Reward()
	require.True(t, ok)
	assert.Equal(t, 100.0, genesisReward.Amount)
}

func TestUpdateDifficultyAppliesToLaterBlocks(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.UpdateDifficulty(2))
	require.NoError(t, l.GenerateBlock(context.Background()))

	blocks := l.Blocks()
	assert.Equal(t, uint32(1), blocks[0].Header.Difficulty)
	assert.Equal(t, uint32(2), blocks[1].Header.Difficulty)
	assert.True(t, IsSealed(l.LastHash(), 2))
	assert.Equal(t, uint32(2), l.Difficulty())
}

func TestChainLinkage(t *testing.T) {
	l := newTestLedger(t)
	for i := 0; i < 4; i++ {
		require.NoError(t, l.NewTransaction("Alice", "Bob", float64(i)))
		require.NoError(t, l.GenerateBlock(context.Background()))
	}

	blocks := l.Blocks()
	require.Len(t, blocks, 5)
	for i := 1; i < len(blocks); i++ {
		assert.Equal(t, l.Hasher().Hash(blocks[i-1].Header), blocks[i].Header.PrevHash)
		assert.Equal(t, int(blocks[i].Count), len(blocks[i].Transactions))
		assert.Equal(t, RewardSender, blocks[i].Transactions[0].Sender)
	}
	assert.NoError(t, l.Verify())
}

func TestInvalidDifficulty(t *testing.T) {
	for _, d := range []uint32{0, 65} {
		_, err := NewLedger(context.Background(), "minerA", d)
		assert.True(t, errors.Is(err, ErrInvalidDifficulty), "difficulty %d", d)
	}

	l := newTestLedger(t)
	assert.True(t, errors.Is(l.UpdateDifficulty(0), ErrInvalidDifficulty))
	assert.Equal(t, uint32(1), l.Difficulty())
}

func TestUpdateRewardRejectsNaN(t *testing.T) {
	l := newTestLedger(t)
	zero := 0.0
	assert.True(t, errors.Is(l.UpdateReward(zero/zero), ErrInvalidReward))
	assert.Equal(t, DefaultReward, l.Reward())
}

func TestFailedAssemblyRequeuesTransactions(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.NewTransaction("Alice", "Bob", 1))
	require.NoError(t, l.NewTransaction("Bob", "Carol", 2))
	before := l.Pending()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := l.GenerateBlock(ctx)
	assert.True(t, errors.Is(err, context.Canceled))

	assert.Equal(t, before, l.Pending())
	assert.Equal(t, uint64(0), l.Height())
}

func TestAttemptLimitLeavesChainUnchanged(t *testing.T) {
	l := newTestLedger(t, WithMaxAttempts(2000))
	require.NoError(t, l.UpdateDifficulty(64))
	require.NoError(t, l.NewTransaction("Alice", "Bob", 1))

	err := l.GenerateBlock(context.Background())
	assert.True(t, errors.Is(err, ErrMaxAttempts))
	assert.Equal(t, uint64(0), l.Height())
	assert.Equal(t, 1, l.PendingCount())
}

func TestCompactHexLedger(t *testing.T) {
	l := newTestLedger(t, WithHexEncoding(CompactHex))
	require.NoError(t, l.NewTransaction("Alice", "Bob", 10))
	require.NoError(t, l.GenerateBlock(context.Background()))
	assert.Equal(t, CompactHex, l.Hasher().Encoding())
	assert.NoError(t, l.Verify())
}

func TestBlocksAreCopies(t *testing.T) {
	l := newTestLedger(t)
	blocks := l.Blocks()
	blocks[0].Transactions[0].Amount = 1
	blocks[0].Header.Nonce++

	again, err := l.Block(0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, again.Transactions[0].Amount)
	assert.NoError(t, l.Verify())
}

func TestBlockLookup(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.GenerateBlock(context.Background()))

	byHash, err := l.BlockByHash(l.LastHash())
	require.NoError(t, err)
	byHeight, err := l.Block(1)
	require.NoError(t, err)
	assert.Equal(t, byHeight, byHash)

	_, err = l.Block(2)
	assert.True(t, errors.Is(err, ErrBlockNotFound))
	_, err = l.BlockByHash("nope")
	assert.True(t, errors.Is(err, ErrBlockNotFound))
}

func TestVerifyDetectsTampering(t *testing.T) {
	t.Run("transaction amount", func(t *testing.T) {
		l := newTestLedger(t)
		require.NoError(t, l.NewTransaction("Alice", "Bob", 10))
		require.NoError(t, l.GenerateBlock(context.Background()))

		l.blocks[1].Transactions[1].Amount = 1000
		err := l.Verify()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid merkle root")
	})

	t.Run("previous hash", func(t *testing.T) {
		l := newTestLedger(t)
		require.NoError(t, l.GenerateBlock(context.Background()))

		l.blocks[1].Header.PrevHash = "deadbeef"
		assert.True(t, errors.Is(l.Verify(), ErrBrokenLink))
	})

	t.Run("count", func(t *testing.T) {
		l := newTestLedger(t)
		l.blocks[0].Count = 5
		assert.True(t, errors.Is(l.Verify(), ErrCountMismatch))
	})

	t.Run("genesis sentinel", func(t *testing.T) {
		l := newTestLedger(t)
		l.blocks[0].Header.PrevHash = ""
		assert.True(t, errors.Is(l.Verify(), ErrMalformedGenesisState))
	})
}

func TestLedgerPublishesSealedEvents(t *testing.T) {
	feed := NewEventFeed[BlockSealedEvent]()
	ch := make(chan BlockSealedEvent, 4)
	require.NoError(t, feed.Subscribe("test", ch))

	l := newTestLedger(t, WithEventFeed(feed))
	genesis := <-ch
	assert.Equal(t, uint64(0), genesis.Height)
	assert.Equal(t, uint32(1), genesis.TxCount)

	require.NoError(t, l.NewTransaction("Alice", "Bob", 10))
	require.NoError(t, l.GenerateBlock(context.Background()))
	ev := <-ch
	assert.Equal(t, uint64(1), ev.Height)
	assert.Equal(t, uint32(2), ev.TxCount)
	assert.Equal(t, l.LastHash(), ev.Hash)
	assert.GreaterOrEqual(t, ev.Attempts, uint64(1))
}

func TestBlockDump(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLedger(t, WithBlockDump(&buf))
	require.NoError(t, l.NewTransaction("Alice", "Bob", 10))
	require.NoError(t, l.GenerateBlock(context.Background()))

	assert.Contains(t, buf.String(), "minerA")
	assert.Contains(t, buf.String(), "Alice")
}

func TestRejectingValidatorKeepsPoolEmpty(t *testing.T) {
	l := newTestLedger(t, WithValidator(AddressValidator))
	assert.True(t, errors.Is(l.NewTransaction("Alice", "Bob", 1), ErrInvalidAddress))
	assert.Equal(t, 0, l.PendingCount())
}

func TestReadersDoNotWaitForProofOfWork(t *testing.T) {
	assembling := make(chan struct{}, 1)
	clock := func() time.Time {
		select {
		case assembling <- struct{}{}:
		default:
		}
		return fixedClock()
	}
	l := newTestLedger(t, WithClock(clock))
	<-assembling
	require.NoError(t, l.UpdateDifficulty(64))
	require.NoError(t, l.NewTransaction("Alice", "Bob", 1))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- l.GenerateBlock(ctx) }()
	<-assembling

	read := make(chan uint64, 1)
	go func() {
		_ = l.LastHash()
		_ = l.Blocks()
		_ = l.Difficulty()
		read <- l.Height()
	}()
	select {
	case height := <-read:
		assert.Equal(t, uint64(0), height)
	case <-time.After(2 * time.Second):
		t.Fatal("ledger readers blocked while a block is being mined")
	}

	cancel()
	assert.True(t, errors.Is(<-errCh, context.Canceled))
	assert.Equal(t, 1, l.PendingCount())
	assert.NoError(t, l.Verify())
}

func TestSealBlockReturnsAppendedBlock(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.NewTransaction("Alice", "Bob", 10))

	block, err := l.SealBlock(context.Background())
	require.NoError(t, err)

	byHash, err := l.BlockByHash(l.Hasher().Hash(block.Header))
	require.NoError(t, err)
	assert.Equal(t, block, byHash)
	assert.Equal(t, uint32(2), block.Count)
}
