package blockchain

import (
	"sync"
)

// Validator decides whether a transaction may enter the pool.
type Validator interface {
	Validate(tx Transaction) error
}

type ValidatorFunc func(tx Transaction) error

func (f ValidatorFunc) Validate(tx Transaction) error {
	return f(tx)
}

// AcceptAll is the default validator: any transaction is accepted.
var AcceptAll Validator = ValidatorFunc(func(Transaction) error { return nil })

// Pool holds pending transactions in arrival order.
type Pool struct {
	transactions []Transaction
	validator    Validator
	mu           sync.Mutex
}

func NewPool(v Validator) *Pool {
	if v == nil {
		v = AcceptAll
	}
	return &Pool{
		validator: v,
	}
}

func (p *Pool) Add(tx Transaction) error {
	if err := p.validator.Validate(tx); err != nil {
		log.Warnf("Transaction rejected [%s]: %v\n", tx, err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.transactions = append(p.transactions, tx)
	return nil
}

// Drain empties the pool and returns its previous contents in order.
func (p *Pool) Drain() []Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	txs := p.transactions
	p.transactions = nil
	return txs
}

// requeue puts txs back ahead of anything added since they were drained.
func (p *Pool) requeue(txs []Transaction) {
	if len(txs) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transactions = append(append(make([]Transaction, 0, len(txs)+len(p.transactions)), txs...), p.transactions...)
}

func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.transactions)
}

func (p *Pool) Pending() []Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	txs := make([]Transaction, len(p.transactions))
	copy(txs, p.transactions)
	return txs
}
