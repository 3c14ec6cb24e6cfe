package core

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"
)

// ChainConfig is the chain-wide configuration the engine validates
// transactions and blocks against (spec §4.2/§4.3).
type ChainConfig struct {
	ChainID uint64
	// Owner is the address every pushed block's signature must recover to.
	// If nil, blocks may be pushed unsigned (used by tests).
	Owner *Address
	// Owshen is the L1 bridge contract address deposits are verified
	// against in mainnet mode (bridge package).
	Owshen Address
}

// Blockchain is the deterministic state machine of spec §4.2: it owns a
// KvStore exclusively and exposes PushBlock/PopBlock/DraftBlock/ApplyTx plus
// read queries. Grounded on core/ledger.go's AppendBlock/applyBlock shape,
// generalized to this spec's push/pop/draft contract.
type Blockchain struct {
	mu      sync.Mutex
	store   KvStore
	config  ChainConfig
	genesis *Genesis

	blockCache *lru.Cache[uint64, Block]
	txCache    *lru.Cache[Hash, IncludedTransaction]
}

const defaultCacheSize = 1024

func NewBlockchain(store KvStore, config ChainConfig, genesis *Genesis) (*Blockchain, error) {
	blockCache, err := lru.New[uint64, Block](defaultCacheSize)
	if err != nil {
		return nil, err
	}
	txCache, err := lru.New[Hash, IncludedTransaction](defaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &Blockchain{
		store:      store,
		config:     config,
		genesis:    genesis,
		blockCache: blockCache,
		txCache:    txCache,
	}, nil
}

func (bc *Blockchain) Height() uint64 {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return GetHeight(bc.store)
}

// GetBlock fails for i >= height, per spec §4.2.
func (bc *Blockchain) GetBlock(i uint64) (Block, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if i >= GetHeight(bc.store) {
		return Block{}, fmt.Errorf("block %d does not exist", i)
	}
	if b, ok := bc.blockCache.Get(i); ok {
		return b, nil
	}
	b, ok := GetBlock(bc.store, i)
	if !ok {
		return Block{}, fmt.Errorf("block %d does not exist", i)
	}
	bc.blockCache.Add(i, b)
	return b, nil
}

func (bc *Blockchain) GetBlockByHash(h Hash) (Block, bool) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return GetBlockByHash(bc.store, h)
}

// GetBalance falls back to the genesis table on a store-miss.
func (bc *Blockchain) GetBalance(addr Address, tok Token) *uint256.Int {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if _, ok := bc.store.GetRaw(KeyBalance(addr, tok)); ok {
		return GetBalance(bc.store, addr, tok)
	}
	return bc.genesis.Balance(addr, tok)
}

func (bc *Blockchain) GetAllowance(owner, spender Address, tok Token) *uint256.Int {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return GetAllowance(bc.store, owner, spender, tok)
}

func (bc *Blockchain) GetNonceEth(addr Address) *uint256.Int {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return GetNonceEth(bc.store, addr)
}

// GetTokenSymbol returns "Unknown" on miss, per spec §4.2.
func (bc *Blockchain) GetTokenSymbol(addr Address) string {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return GetTokenSymbol(bc.store, addr)
}

func (bc *Blockchain) GetTokenDecimal(addr Address) *uint256.Int {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return GetTokenDecimal(bc.store, addr)
}

func (bc *Blockchain) GetTransactionByHash(h Hash) (IncludedTransaction, bool) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if it, ok := bc.txCache.Get(h); ok {
		return it, true
	}
	it, ok := GetTransactionByHash(bc.store, h)
	if ok {
		bc.txCache.Add(h, it)
	}
	return it, ok
}

func (bc *Blockchain) GetTransactionsBySigner(addr Address) []IncludedTransaction {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return GetTransactionsBySigner(bc.store, addr)
}

// GetUserWithdrawals filters a signer's transaction index down to Burn
// transactions only, per original_source's get_user_withdrawals.
func (bc *Blockchain) GetUserWithdrawals(addr Address) []IncludedTransaction {
	all := bc.GetTransactionsBySigner(addr)
	out := make([]IncludedTransaction, 0, len(all))
	for _, it := range all {
		if it.Tx.IsCustom() && !it.Tx.Custom.IsMint() {
			out = append(out, it)
		}
	}
	return out
}

func (bc *Blockchain) GetTotalTransactions() *uint256.Int {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return GetTransactionCount(bc.store)
}

// GetTransactionsPerSecond requires height >= 2 and a positive timestamp
// span, else returns 0 (spec §4.2).
func (bc *Blockchain) GetTransactionsPerSecond() float64 {
	bc.mu.Lock()
	height := GetHeight(bc.store)
	if height < 2 {
		bc.mu.Unlock()
		return 0
	}
	last, _ := GetBlock(bc.store, height-1)
	prev, _ := GetBlock(bc.store, height-2)
	bc.mu.Unlock()
	span := int64(last.Timestamp) - int64(prev.Timestamp)
	if span <= 0 {
		return 0
	}
	return float64(len(last.Txs)) / float64(span)
}

// HasDepositedTransaction reports whether the deposit/withdraw façade has
// already recorded userHash, independent of mempool/chain state.
func (bc *Blockchain) HasDepositedTransaction(userHash string) bool {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return HasDepositedTransaction(bc.store, userHash)
}

// MarkDepositedTransaction records userHash immediately, co-guarding the
// mempool and the deposit set against duplicate submissions (spec §4.5).
func (bc *Blockchain) MarkDepositedTransaction(userHash string) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return PutDepositedTransaction(bc.store, userHash)
}

// HasBurnID reports whether burnID has already been claimed by a withdraw.
func (bc *Blockchain) HasBurnID(burnID Hash) bool {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return HasBurnID(bc.store, burnID)
}

// MarkBurnID records burnID immediately, at the façade level — applyBurn
// itself does not write BurnId (preserved from the original; see
// DESIGN.md).
func (bc *Blockchain) MarkBurnID(burnID Hash) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return PutBurnID(bc.store, burnID)
}

// TokenMetadata reads the cached decimals/symbol for addr and returns the
// corresponding ERC-20 Token identity, for callers (e.g. the RPC layer's
// eth_call balanceOf dispatch) that only have a bare contract address.
func (bc *Blockchain) TokenMetadata(addr Address) Token {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return TokenMetadata(bc.store, addr)
}

// Config returns the chain's configuration.
func (bc *Blockchain) Config() ChainConfig { return bc.config }

// PushBlock validates and commits b, recording a reverse delta for
// PopBlock. Any validation or apply failure leaves the store untouched
// (enforced by running the whole push inside Atomic).
func (bc *Blockchain) PushBlock(b Block) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	height := GetHeight(bc.store)
	if b.Index != height {
		return ErrBadBlockIndex
	}
	if height == 0 {
		if b.PrevHash != nil {
			return ErrBadPreviousHash
		}
	} else {
		last, ok := GetBlock(bc.store, height-1)
		if !ok {
			return ErrBadPreviousHash
		}
		lastHash, err := last.Hash()
		if err != nil {
			return err
		}
		if b.PrevHash == nil || *b.PrevHash != lastHash {
			return ErrBadPreviousHash
		}
	}
	if bc.config.Owner != nil && !b.IsSignedBy(*bc.config.Owner) {
		return ErrBlockNotSigned
	}

	blockHash, err := b.Hash()
	if err != nil {
		return err
	}

	_, delta, err := Atomic(bc.store, func(m *MirrorKvStore) (struct{}, error) {
		for i, tx := range b.Txs {
			if err := bc.applyTxLocked(m, tx); err != nil {
				return struct{}{}, err
			}
			txHash, err := tx.Hash()
			if err != nil {
				return struct{}{}, err
			}
			signer, err := tx.Signer()
			if err != nil {
				return struct{}{}, err
			}
			it := IncludedTransaction{
				Tx:               tx,
				BlockHash:        blockHash,
				BlockNumber:      b.Index,
				TransactionIndex: uint64(i),
			}
			if err := PutTransactionByHash(m, txHash, it); err != nil {
				return struct{}{}, err
			}
			if err := AppendTransactionIndex(m, signer, it); err != nil {
				return struct{}{}, err
			}
		}
		if err := PutBlock(m, b.Index, blockHash, b); err != nil {
			return struct{}{}, err
		}
		if err := PutHeight(m, b.Index+1); err != nil {
			return struct{}{}, err
		}
		count := GetTransactionCount(m)
		newCount := new(uint256.Int).Add(count, uint256.NewInt(uint64(len(b.Txs))))
		if err := PutTransactionCount(m, newCount); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	if err != nil {
		return err
	}
	if err := PutDelta(bc.store, b.Index+1, delta); err != nil {
		return err
	}
	bc.blockCache.Add(b.Index, b)
	logrus.WithFields(logrus.Fields{"height": b.Index + 1, "txs": len(b.Txs)}).Info("block pushed")
	return nil
}

// PopBlock undoes the most recently pushed block, restoring the reverse
// delta recorded by PushBlock. Returns nil, nil at height 0, with no side
// effects.
//
// Preserved defect (DESIGN.md Open Question 4): TransactionCount is
// incremented here too, matching the original's documented bug — a correct
// implementation would subtract.
func (bc *Blockchain) PopBlock() (*Block, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	height := GetHeight(bc.store)
	if height == 0 {
		return nil, nil
	}
	removed, ok := GetBlock(bc.store, height-1)
	if !ok {
		return nil, fmt.Errorf("missing block at height %d", height-1)
	}
	delta, ok := GetDelta(bc.store, height)
	if !ok {
		return nil, fmt.Errorf("missing delta for height %d", height)
	}
	if err := bc.store.BatchPutRaw(delta); err != nil {
		return nil, err
	}
	if err := DeleteDelta(bc.store, height); err != nil {
		return nil, err
	}
	count := GetTransactionCount(bc.store)
	newCount := new(uint256.Int).Add(count, uint256.NewInt(uint64(len(removed.Txs))))
	if err := PutTransactionCount(bc.store, newCount); err != nil {
		return nil, err
	}
	bc.blockCache.Remove(height - 1)
	logrus.WithField("height", height-1).Info("block popped")
	return &removed, nil
}

// DraftBlock forks the current state, speculatively applies every queued
// transaction in order, silently drops failures, and returns an unsigned
// Block of the successes. The store is left unchanged (draft purity,
// spec §8).
func (bc *Blockchain) DraftBlock(queue *TransactionQueue, timestamp uint64) (Block, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	height := GetHeight(bc.store)
	var prevHash *Hash
	if height > 0 {
		last, ok := GetBlock(bc.store, height-1)
		if !ok {
			return Block{}, fmt.Errorf("missing block at height %d", height-1)
		}
		h, err := last.Hash()
		if err != nil {
			return Block{}, err
		}
		prevHash = &h
	}

	mirror := NewMirrorKvStore(bc.store)
	txs := queue.Drain()
	included := make([]OwshenTransaction, 0, len(txs))
	for _, tx := range txs {
		if err := bc.applyTxLocked(mirror, tx); err != nil {
			logrus.WithError(err).Debug("draft: dropping transaction")
			continue
		}
		included = append(included, tx)
	}
	return Block{PrevHash: prevHash, Index: height, Txs: included, Timestamp: timestamp}, nil
}

// applyTxLocked is ApplyTx's body, called with bc.mu already held.
func (bc *Blockchain) applyTxLocked(s KvStore, tx OwshenTransaction) error {
	chainID, err := tx.ChainID()
	if err != nil {
		return err
	}
	if chainID != bc.config.ChainID {
		return ErrChainIDMismatch
	}
	_, _, err = Atomic(s, func(inner *MirrorKvStore) (struct{}, error) {
		return struct{}{}, bc.dispatchTx(inner, tx)
	})
	return err
}

// ApplyTx is the exported form of applyTxLocked for callers that already
// hold a store reference (e.g. a mirror) and want to apply a transaction to
// it. It does not take bc.mu.
func (bc *Blockchain) ApplyTx(s KvStore, tx OwshenTransaction) error {
	return bc.applyTxLocked(s, tx)
}

func (bc *Blockchain) dispatchTx(s KvStore, tx OwshenTransaction) error {
	switch {
	case tx.Eth != nil:
		return bc.applyEth(s, tx.Eth)
	case tx.Custom.IsMint():
		mint, err := DecodeMintRLP(tx.Custom.Msg)
		if err != nil {
			return err
		}
		return applyMint(s, mint)
	default:
		burn, err := DecodeBurnRLP(tx.Custom.Msg)
		if err != nil {
			return err
		}
		return applyBurn(s, burn)
	}
}
