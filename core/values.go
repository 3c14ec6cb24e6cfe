package core

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// IncludedTransaction is the durable form of a transaction once committed in
// a block (spec §3).
type IncludedTransaction struct {
	Tx               OwshenTransaction
	BlockHash        Hash
	BlockNumber      uint64
	TransactionIndex uint64
}

type includedTxRLP struct {
	Tx               txRLP
	BlockHash        Hash
	BlockNumber      uint64
	TransactionIndex uint64
}

func (it IncludedTransaction) toRLP() (includedTxRLP, error) {
	tr, err := toTxRLP(it.Tx)
	if err != nil {
		return includedTxRLP{}, err
	}
	return includedTxRLP{
		Tx:               tr,
		BlockHash:        it.BlockHash,
		BlockNumber:      it.BlockNumber,
		TransactionIndex: it.TransactionIndex,
	}, nil
}

func fromTxRLP(r txRLP) (OwshenTransaction, error) {
	if r.IsCustom {
		return OwshenTransaction{Custom: &CustomTx{ChainID: r.ChainID, Msg: r.Msg, Sig: r.Sig}}, nil
	}
	ethTx, err := DecodeEthTx(r.EthRaw)
	if err != nil {
		return OwshenTransaction{}, err
	}
	return OwshenTransaction{Eth: ethTx}, nil
}

func fromIncludedTxRLP(r includedTxRLP) (IncludedTransaction, error) {
	tx, err := fromTxRLP(r.Tx)
	if err != nil {
		return IncludedTransaction{}, err
	}
	return IncludedTransaction{
		Tx:               tx,
		BlockHash:        r.BlockHash,
		BlockNumber:      r.BlockNumber,
		TransactionIndex: r.TransactionIndex,
	}, nil
}

func encodeU256(v *uint256.Int) []byte {
	if v == nil {
		v = uint256.NewInt(0)
	}
	enc, err := rlp.EncodeToBytes(v)
	if err != nil {
		panic("core: u256 encoding failed: " + err.Error())
	}
	return enc
}

func decodeU256(b []byte) (*uint256.Int, error) {
	v := new(uint256.Int)
	if err := rlp.DecodeBytes(b, v); err != nil {
		return nil, err
	}
	return v, nil
}

func encodeUint64(v uint64) []byte {
	enc, _ := rlp.EncodeToBytes(v)
	return enc
}

func decodeUint64(b []byte) (uint64, error) {
	var v uint64
	if err := rlp.DecodeBytes(b, &v); err != nil {
		return 0, err
	}
	return v, nil
}

func encodeString(s string) []byte {
	enc, _ := rlp.EncodeToBytes(s)
	return enc
}

func decodeString(b []byte) (string, error) {
	var s string
	if err := rlp.DecodeBytes(b, &s); err != nil {
		return "", err
	}
	return s, nil
}

func encodeBlock(b Block) ([]byte, error) {
	r, err := b.toRLP()
	if err != nil {
		return nil, err
	}
	wrapped := struct {
		B   blockRLP
		Sig []byte
	}{B: r, Sig: b.Sig}
	return rlp.EncodeToBytes(wrapped)
}

func decodeBlock(data []byte) (Block, error) {
	var wrapped struct {
		B   blockRLP
		Sig []byte
	}
	if err := rlp.DecodeBytes(data, &wrapped); err != nil {
		return Block{}, err
	}
	blk := Block{Index: wrapped.B.Index, Timestamp: wrapped.B.Timestamp, Sig: wrapped.Sig}
	if wrapped.B.HasPrevHash {
		h := wrapped.B.PrevHash
		blk.PrevHash = &h
	}
	for _, tr := range wrapped.B.Txs {
		tx, err := fromTxRLP(tr)
		if err != nil {
			return Block{}, err
		}
		blk.Txs = append(blk.Txs, tx)
	}
	return blk, nil
}

func encodeIncludedTx(it IncludedTransaction) ([]byte, error) {
	r, err := it.toRLP()
	if err != nil {
		return nil, err
	}
	return rlp.EncodeToBytes(r)
}

func decodeIncludedTx(data []byte) (IncludedTransaction, error) {
	var r includedTxRLP
	if err := rlp.DecodeBytes(data, &r); err != nil {
		return IncludedTransaction{}, err
	}
	return fromIncludedTxRLP(r)
}

func rlpEncodeEntries(entries []KvEntry) ([]byte, error) {
	return rlp.EncodeToBytes(entries)
}

func rlpDecodeEntries(data []byte, out *[]KvEntry) error {
	return rlp.DecodeBytes(data, out)
}

func encodeIncludedTxList(list []IncludedTransaction) ([]byte, error) {
	rs := make([]includedTxRLP, 0, len(list))
	for _, it := range list {
		r, err := it.toRLP()
		if err != nil {
			return nil, err
		}
		rs = append(rs, r)
	}
	return rlp.EncodeToBytes(rs)
}

func decodeIncludedTxList(data []byte) ([]IncludedTransaction, error) {
	var rs []includedTxRLP
	if err := rlp.DecodeBytes(data, &rs); err != nil {
		return nil, err
	}
	out := make([]IncludedTransaction, 0, len(rs))
	for _, r := range rs {
		it, err := fromIncludedTxRLP(r)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}
