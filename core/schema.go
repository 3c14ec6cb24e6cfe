package core

import "github.com/holiman/uint256"

// This file is the typed layer over KvStore (spec §2 item 2, "Schema"): the
// rest of the engine manipulates balances, blocks and nonces, never raw
// bytes directly.

func GetHeight(s KvStore) uint64 {
	v, ok := s.GetRaw(KeyHeight())
	if !ok {
		return 0
	}
	h, err := decodeUint64(v)
	if err != nil {
		return 0
	}
	return h
}

func PutHeight(s KvStore, h uint64) error {
	return s.BatchPutRaw([]KvEntry{{Key: KeyHeight(), Value: encodeUint64(h)}})
}

func GetBlock(s KvStore, i uint64) (Block, bool) {
	v, ok := s.GetRaw(KeyBlock(i))
	if !ok {
		return Block{}, false
	}
	b, err := decodeBlock(v)
	if err != nil {
		return Block{}, false
	}
	return b, true
}

func GetBlockByHash(s KvStore, h Hash) (Block, bool) {
	v, ok := s.GetRaw(KeyBlockHash(h))
	if !ok {
		return Block{}, false
	}
	b, err := decodeBlock(v)
	if err != nil {
		return Block{}, false
	}
	return b, true
}

func PutBlock(s KvStore, i uint64, h Hash, b Block) error {
	enc, err := encodeBlock(b)
	if err != nil {
		return err
	}
	return s.BatchPutRaw([]KvEntry{
		{Key: KeyBlock(i), Value: enc},
		{Key: KeyBlockHash(h), Value: enc},
	})
}

func GetDelta(s KvStore, i uint64) ([]KvEntry, bool) {
	v, ok := s.GetRaw(KeyDelta(i))
	if !ok {
		return nil, false
	}
	var entries []KvEntry
	if err := rlpDecodeEntries(v, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func PutDelta(s KvStore, i uint64, delta []KvEntry) error {
	enc, err := rlpEncodeEntries(delta)
	if err != nil {
		return err
	}
	return s.BatchPutRaw([]KvEntry{{Key: KeyDelta(i), Value: enc}})
}

func DeleteDelta(s KvStore, i uint64) error {
	return s.BatchPutRaw([]KvEntry{{Key: KeyDelta(i), Del: true}})
}

func GetBalance(s KvStore, addr Address, tok Token) *uint256.Int {
	v, ok := s.GetRaw(KeyBalance(addr, tok))
	if !ok {
		return uint256.NewInt(0)
	}
	n, err := decodeU256(v)
	if err != nil {
		return uint256.NewInt(0)
	}
	return n
}

func PutBalance(s KvStore, addr Address, tok Token, amount *uint256.Int) error {
	return s.BatchPutRaw([]KvEntry{{Key: KeyBalance(addr, tok), Value: encodeU256(amount)}})
}

func GetAllowance(s KvStore, owner, spender Address, tok Token) *uint256.Int {
	v, ok := s.GetRaw(KeyAllowance(owner, spender, tok))
	if !ok {
		return uint256.NewInt(0)
	}
	n, err := decodeU256(v)
	if err != nil {
		return uint256.NewInt(0)
	}
	return n
}

func PutAllowance(s KvStore, owner, spender Address, tok Token, amount *uint256.Int) error {
	return s.BatchPutRaw([]KvEntry{{Key: KeyAllowance(owner, spender, tok), Value: encodeU256(amount)}})
}

func GetNonceEth(s KvStore, addr Address) *uint256.Int {
	v, ok := s.GetRaw(KeyNonceEth(addr))
	if !ok {
		return uint256.NewInt(0)
	}
	n, err := decodeU256(v)
	if err != nil {
		return uint256.NewInt(0)
	}
	return n
}

func PutNonceEth(s KvStore, addr Address, n *uint256.Int) error {
	return s.BatchPutRaw([]KvEntry{{Key: KeyNonceEth(addr), Value: encodeU256(n)}})
}

// GetNonceCustom exists for schema completeness but is never incremented —
// preserved from the original, see DESIGN.md Open Question 5.
func GetNonceCustom(s KvStore, addr Address) *uint256.Int {
	v, ok := s.GetRaw(KeyNonceCustom(addr))
	if !ok {
		return uint256.NewInt(0)
	}
	n, err := decodeU256(v)
	if err != nil {
		return uint256.NewInt(0)
	}
	return n
}

func GetTransactionByHash(s KvStore, h Hash) (IncludedTransaction, bool) {
	v, ok := s.GetRaw(KeyTransactionHash(h))
	if !ok {
		return IncludedTransaction{}, false
	}
	it, err := decodeIncludedTx(v)
	if err != nil {
		return IncludedTransaction{}, false
	}
	return it, true
}

func PutTransactionByHash(s KvStore, h Hash, it IncludedTransaction) error {
	enc, err := encodeIncludedTx(it)
	if err != nil {
		return err
	}
	return s.BatchPutRaw([]KvEntry{{Key: KeyTransactionHash(h), Value: enc}})
}

func HasTransactionHash(s KvStore, h Hash) bool {
	_, ok := s.GetRaw(KeyTransactionHash(h))
	return ok
}

func GetTransactionsBySigner(s KvStore, addr Address) []IncludedTransaction {
	v, ok := s.GetRaw(KeyTransactions(addr))
	if !ok {
		return nil
	}
	list, err := decodeIncludedTxList(v)
	if err != nil {
		return nil
	}
	return list
}

func AppendTransactionIndex(s KvStore, addr Address, it IncludedTransaction) error {
	existing := GetTransactionsBySigner(s, addr)
	existing = append(existing, it)
	enc, err := encodeIncludedTxList(existing)
	if err != nil {
		return err
	}
	return s.BatchPutRaw([]KvEntry{{Key: KeyTransactions(addr), Value: enc}})
}

func HasBurnID(s KvStore, id Hash) bool {
	_, ok := s.GetRaw(KeyBurnID(id))
	return ok
}

func PutBurnID(s KvStore, id Hash) error {
	return s.BatchPutRaw([]KvEntry{{Key: KeyBurnID(id), Value: []byte{}}})
}

func HasDepositedTransaction(s KvStore, userHash string) bool {
	_, ok := s.GetRaw(KeyDepositedTransaction(userHash))
	return ok
}

func PutDepositedTransaction(s KvStore, userHash string) error {
	return s.BatchPutRaw([]KvEntry{{Key: KeyDepositedTransaction(userHash), Value: []byte(userHash)}})
}

func GetTokenDecimal(s KvStore, addr Address) *uint256.Int {
	v, ok := s.GetRaw(KeyTokenDecimal(addr))
	if !ok {
		return uint256.NewInt(0)
	}
	n, err := decodeU256(v)
	if err != nil {
		return uint256.NewInt(0)
	}
	return n
}

func PutTokenDecimal(s KvStore, addr Address, decimals *uint256.Int) error {
	return s.BatchPutRaw([]KvEntry{{Key: KeyTokenDecimal(addr), Value: encodeU256(decimals)}})
}

func GetTokenSymbol(s KvStore, addr Address) string {
	v, ok := s.GetRaw(KeyTokenSymbol(addr))
	if !ok {
		return "Unknown"
	}
	sym, err := decodeString(v)
	if err != nil {
		return "Unknown"
	}
	return sym
}

func PutTokenSymbol(s KvStore, addr Address, symbol string) error {
	return s.BatchPutRaw([]KvEntry{{Key: KeyTokenSymbol(addr), Value: encodeString(symbol)}})
}

// TokenMetadata reads the denormalized decimals/symbol for addr, used to
// build the Erc20 Token identity for balance/allowance keys (spec §4.3).
func TokenMetadata(s KvStore, addr Address) Token {
	return Erc20Token(addr, GetTokenDecimal(s, addr), GetTokenSymbol(s, addr))
}

func GetTransactionCount(s KvStore) *uint256.Int {
	v, ok := s.GetRaw(KeyTransactionCount())
	if !ok {
		return uint256.NewInt(0)
	}
	n, err := decodeU256(v)
	if err != nil {
		return uint256.NewInt(0)
	}
	return n
}

func PutTransactionCount(s KvStore, n *uint256.Int) error {
	return s.BatchPutRaw([]KvEntry{{Key: KeyTransactionCount(), Value: encodeU256(n)}})
}
