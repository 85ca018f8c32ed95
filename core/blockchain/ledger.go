package blockchain

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/multierr"
)

// DefaultReward is paid to the miner of every block until UpdateReward is called.
const DefaultReward = 100.0

// Ledger is a single linear chain of sealed blocks plus the pool of
// transactions waiting for the next one.
type Ledger struct {
	blocks       []*Block
	blockIndex   map[string]uint64
	pool         *Pool
	difficulty   uint32
	reward       float64
	minerAddress string

	hasher      Hasher
	maxAttempts uint64
	validator   Validator
	clock       func() time.Time
	feed        *EventFeed[BlockSealedEvent]
	dump        io.Writer

	// assembly serializes SealBlock. mu guards the chain and settings.
	assembly sync.Mutex
	mu       sync.Mutex
}

type Option func(*Ledger)

func WithHexEncoding(enc HexEncoding) Option {
	return func(l *Ledger) { l.hasher = NewHasher(enc) }
}

// WithMaxAttempts bounds every proof-of-work search. Zero leaves it unbounded.
func WithMaxAttempts(n uint64) Option {
	return func(l *Ledger) { l.maxAttempts = n }
}

func WithReward(reward float64) Option {
	return func(l *Ledger) { l.reward = reward }
}

func WithValidator(v Validator) Option {
	return func(l *Ledger) { l.validator = v }
}

func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) { l.clock = clock }
}

func WithEventFeed(feed *EventFeed[BlockSealedEvent]) Option {
	return func(l *Ledger) { l.feed = feed }
}

// WithBlockDump writes a dump of every sealed block to w.
func WithBlockDump(w io.Writer) Option {
	return func(l *Ledger) { l.dump = w }
}

// NewLedger creates the ledger and mines the genesis block, which holds only
// the reward paid to minerAddress.
func NewLedger(ctx context.Context, minerAddress string, difficulty uint32, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		blockIndex:   make(map[string]uint64),
		difficulty:   difficulty,
		reward:       DefaultReward,
		minerAddress: minerAddress,
		hasher:       NewHasher(PaddedHex),
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.pool = NewPool(l.validator)
	if l.feed == nil {
		l.feed = NewEventFeed[BlockSealedEvent]()
	}

	if err := ValidateDifficulty(difficulty, l.hasher); err != nil {
		return nil, err
	}
	if !validAmount(l.reward) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReward, l.reward)
	}

	log.Info("Generating genesis block...")
	if err := l.GenerateBlock(ctx); err != nil {
		return nil, fmt.Errorf("error mining genesis block: %w", err)
	}
	if err := l.checkGenesis(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Ledger) NewTransaction(sender, receiver string, amount float64) error {
	tx, err := NewTransaction(sender, receiver, amount)
	if err != nil {
		return err
	}
	if err := l.pool.Add(tx); err != nil {
		return err
	}
	log.Infof("Transaction added to the pool [%s]\n", tx)
	return nil
}

// GenerateBlock assembles, seals and appends one block containing the reward
// transaction followed by every pending transaction. On failure the pending
// transactions are returned to the pool and the chain is unchanged.
func (l *Ledger) GenerateBlock(ctx context.Context) error {
	_, err := l.SealBlock(ctx)
	return err
}

// SealBlock is GenerateBlock returning a copy of the block it appended.
// Readers are not blocked while the nonce search runs.
func (l *Ledger) SealBlock(ctx context.Context) (Block, error) {
	l.assembly.Lock()
	defer l.assembly.Unlock()

	// Only SealBlock appends, so the tip cannot move until assembly is released.
	l.mu.Lock()
	header := BlockHeader{
		Timestamp:  l.clock().Unix(),
		Nonce:      0,
		Difficulty: l.difficulty,
		PrevHash:   l.lastHash(),
	}
	reward := l.reward
	height := uint64(len(l.blocks))
	l.mu.Unlock()

	pending := l.pool.Drain()
	txs := make([]Transaction, 0, len(pending)+1)
	txs = append(txs, NewRewardTx(l.minerAddress, reward))
	txs = append(txs, pending...)

	block := newBlock(header, txs)
	if err := block.checkCount(); err != nil {
		l.pool.requeue(pending)
		return Block{}, err
	}

	root, err := BuildMerkleRoot(l.hasher, block.Transactions)
	if err != nil {
		l.pool.requeue(pending)
		return Block{}, err
	}
	block.Header.MerkleRoot = root

	log.Infof("Mining for new Block:[%d] with %d transactions\n", height, block.Count)
	res, err := NewMiner(l.hasher, l.maxAttempts).Seal(ctx, &block.Header)
	if err != nil {
		l.pool.requeue(pending)
		log.Errorf("Mining failed for Block:[%d]: %v\n", height, err)
		return Block{}, err
	}

	l.mu.Lock()
	l.blocks = append(l.blocks, block)
	l.blockIndex[res.Hash] = height
	sealed := block.clone()
	l.mu.Unlock()

	log.Successf("Block:[%d]:[%s] sealed after %d attempts\n", height, res.Hash, res.Attempts)
	if l.dump != nil {
		spew.Fdump(l.dump, sealed)
	}

	l.feed.Send(BlockSealedEvent{
		Height:   height,
		Hash:     res.Hash,
		Nonce:    sealed.Header.Nonce,
		TxCount:  sealed.Count,
		Attempts: res.Attempts,
	})
	return sealed, nil
}

// LastHash returns the hash of the newest block header, or GenesisPrevHash
// when the chain is empty.
func (l *Ledger) LastHash() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastHash()
}

func (l *Ledger) lastHash() string {
	if len(l.blocks) == 0 {
		return GenesisPrevHash
	}
	return l.hasher.Hash(l.blocks[len(l.blocks)-1].Header)
}

// UpdateDifficulty applies to blocks assembled after the call.
func (l *Ledger) UpdateDifficulty(difficulty uint32) error {
	if err := ValidateDifficulty(difficulty, l.hasher); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.difficulty = difficulty
	log.Infof("Difficulty set to %d\n", difficulty)
	return nil
}

// UpdateReward applies to blocks assembled after the call.
func (l *Ledger) UpdateReward(reward float64) error {
	if !validAmount(reward) {
		return fmt.Errorf("%w: %v", ErrInvalidReward, reward)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reward = reward
	log.Infof("Reward set to %s\n", formatAmount(reward))
	return nil
}

func (l *Ledger) Difficulty() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.difficulty
}

func (l *Ledger) Reward() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reward
}

func (l *Ledger) MinerAddress() string {
	return l.minerAddress
}

func (l *Ledger) Hasher() Hasher {
	return l.hasher
}

func (l *Ledger) Events() *EventFeed[BlockSealedEvent] {
	return l.feed
}

func (l *Ledger) Pending() []Transaction {
	return l.pool.Pending()
}

func (l *Ledger) PendingCount() int {
	return l.pool.Len()
}

// Height is the index of the newest block.
func (l *Ledger) Height() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return uint64(len(l.blocks) - 1)
}

// Blocks returns copies of every sealed block, genesis first.
func (l *Ledger) Blocks() []Block {
	l.mu.Lock()
	defer l.mu.Unlock()
	blocks := make([]Block, len(l.blocks))
	for i, b := range l.blocks {
		blocks[i] = b.clone()
	}
	return blocks
}

func (l *Ledger) Block(height uint64) (Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if height >= uint64(len(l.blocks)) {
		return Block{}, fmt.Errorf("%w: height %d", ErrBlockNotFound, height)
	}
	return l.blocks[height].clone(), nil
}

func (l *Ledger) BlockByHash(hash string) (Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	height, ok := l.blockIndex[hash]
	if !ok {
		return Block{}, fmt.Errorf("%w: hash %s", ErrBlockNotFound, hash)
	}
	return l.blocks[height].clone(), nil
}

// Verify walks the whole chain and reports every violation it finds.
func (l *Ledger) Verify() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkGenesis(); err != nil {
		return err
	}

	var errs error
	for i, b := range l.blocks {
		if i > 0 {
			errs = multierr.Append(errs, l.validateBlock(b, l.blocks[i-1]))
		} else {
			errs = multierr.Append(errs, l.validateContents(b))
		}
	}
	return errs
}

func (l *Ledger) checkGenesis() error {
	if len(l.blocks) == 0 {
		return fmt.Errorf("%w: no genesis block", ErrMalformedGenesisState)
	}
	genesis := l.blocks[0]
	if genesis.Header.PrevHash != GenesisPrevHash {
		return fmt.Errorf("%w: genesis prev hash %q", ErrMalformedGenesisState, genesis.Header.PrevHash)
	}
	if _, ok := genesis.Reward(); !ok {
		return fmt.Errorf("%w: genesis has no reward transaction", ErrMalformedGenesisState)
	}
	return nil
}

// validateBlock checks current against its predecessor and its own contents.
func (l *Ledger) validateBlock(current, previous *Block) error {
	var errs error
	if want := l.hasher.Hash(previous.Header); current.Header.PrevHash != want {
		errs = multierr.Append(errs, fmt.Errorf("%w: expected %s, got %s", ErrBrokenLink, want, current.Header.PrevHash))
	}
	return multierr.Append(errs, l.validateContents(current))
}

func (l *Ledger) validateContents(b *Block) error {
	var errs error
	errs = multierr.Append(errs, b.checkCount())

	root, err := BuildMerkleRoot(l.hasher, b.Transactions)
	if err != nil {
		errs = multierr.Append(errs, err)
	} else if root != b.Header.MerkleRoot {
		errs = multierr.Append(errs, fmt.Errorf("invalid merkle root: expected %s, got %s", root, b.Header.MerkleRoot))
	}

	if hash := l.hasher.Hash(b.Header); !IsSealed(hash, b.Header.Difficulty) {
		errs = multierr.Append(errs, fmt.Errorf("invalid proof of work: %s at difficulty %d", hash, b.Header.Difficulty))
	}
	return errs
}
