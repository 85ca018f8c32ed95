package blockchain

// BuildMerkleRoot reduces txs to a single digest.
//
// Leaves are the transaction hashes in order; an odd leaf count duplicates the
// last leaf. Pairs are then taken from the front of a work queue, their hex
// strings concatenated and hashed, and the result pushed to the back until one
// digest remains.
func BuildMerkleRoot(h Hasher, txs []Transaction) (string, error) {
	if len(txs) == 0 {
		return "", ErrEmptyTransactionSet
	}

	queue := make([]string, 0, len(txs)+1)
	for _, tx := range txs {
		queue = append(queue, h.Hash(tx))
	}

	if len(queue)%2 == 1 {
		queue = append(queue, queue[len(queue)-1])
	}

	for len(queue) > 1 {
		node := h.Hash(hexConcat(queue[0] + queue[1]))
		queue = append(queue[2:], node)
	}

	return queue[0], nil
}
