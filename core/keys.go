package core

import "github.com/ethereum/go-ethereum/rlp"

// This file builds the tagged byte keys the schema layer stores values
// under — the Go analogue of the original's bincode-tagged Key enum
// (original_source's src/store/mod.rs Key variants). Each key is a single
// namespace tag byte followed by its fixed-width fields (address/hash/
// uint64); the one variable-length field a key ever carries (a token's
// RLP-encoded metadata, a deposit's user tx hash) always comes last, so no
// two distinct (tag, fields) pairs can collide on the same byte string.
const (
	tagHeight byte = iota + 1
	tagBlock
	tagBlockHash
	tagDelta
	tagBalance
	tagAllowance
	tagNonceEth
	tagNonceCustom
	tagTransactionHash
	tagTransactions
	tagBurnID
	tagDepositedTransaction
	tagTokenDecimal
	tagTokenSymbol
	tagTransactionCount
	tagContractCode
)

func KeyHeight() []byte { return []byte{tagHeight} }

func KeyBlock(i uint64) []byte {
	return append([]byte{tagBlock}, encodeUint64(i)...)
}

func KeyBlockHash(h Hash) []byte {
	return append([]byte{tagBlockHash}, h.Bytes()...)
}

func KeyDelta(i uint64) []byte {
	return append([]byte{tagDelta}, encodeUint64(i)...)
}

func KeyBalance(addr Address, tok Token) []byte {
	key := append([]byte{tagBalance}, addr[:]...)
	return append(key, tokenKeyBytes(tok)...)
}

func KeyAllowance(owner, spender Address, tok Token) []byte {
	key := append([]byte{tagAllowance}, owner[:]...)
	key = append(key, spender[:]...)
	return append(key, tokenKeyBytes(tok)...)
}

func KeyNonceEth(addr Address) []byte {
	return append([]byte{tagNonceEth}, addr[:]...)
}

func KeyNonceCustom(addr Address) []byte {
	return append([]byte{tagNonceCustom}, addr[:]...)
}

func KeyTransactionHash(h Hash) []byte {
	return append([]byte{tagTransactionHash}, h.Bytes()...)
}

func KeyTransactions(addr Address) []byte {
	return append([]byte{tagTransactions}, addr[:]...)
}

func KeyBurnID(id Hash) []byte {
	return append([]byte{tagBurnID}, id.Bytes()...)
}

func KeyDepositedTransaction(userHash string) []byte {
	return append([]byte{tagDepositedTransaction}, []byte(userHash)...)
}

func KeyTokenDecimal(addr Address) []byte {
	return append([]byte{tagTokenDecimal}, addr[:]...)
}

func KeyTokenSymbol(addr Address) []byte {
	return append([]byte{tagTokenSymbol}, addr[:]...)
}

func KeyTransactionCount() []byte { return []byte{tagTransactionCount} }

func KeyContractCode(addr Address) []byte {
	return append([]byte{tagContractCode}, addr[:]...)
}

// tokenKeyBytes renders a Token's identity for use as the trailing field of
// a balance/allowance key: a single discriminant byte for Native, or that
// byte plus the RLP encoding of the token's address/decimals/symbol for an
// Erc20 (spec §9's "token identity trap" is keyed on exactly these fields).
func tokenKeyBytes(t Token) []byte {
	if !t.IsErc20 {
		return []byte{0}
	}
	enc, err := rlp.EncodeToBytes(t.toRLP())
	if err != nil {
		panic("core: token key encoding failed: " + err.Error())
	}
	return append([]byte{1}, enc...)
}
