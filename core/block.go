package core

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// Block is a totally-ordered, owner-signed batch of transactions.
//
// Invariants (spec §3): Index equals the chain height at which it was
// appended; PrevHash equals hash(previous block with Sig cleared), or is
// nil for the genesis block; when the chain has an owner, Sig must verify
// against Hash().
type Block struct {
	PrevHash  *Hash
	Index     uint64
	Txs       []OwshenTransaction
	Sig       []byte // nil until signed
	Timestamp uint64
}

// blockRLP is the wire/hash shape of a Block. Eth transactions are stored as
// their canonical binary envelope; Custom transactions keep their CustomTx
// fields directly, mirroring the BincodableOwshenTransaction split in
// original_source/src/types/tx/mod.rs.
type blockRLP struct {
	HasPrevHash bool
	PrevHash    Hash
	Index       uint64
	Txs         []txRLP
	Timestamp   uint64
}

type txRLP struct {
	IsCustom bool
	EthRaw   []byte
	ChainID  uint64
	Msg      []byte
	Sig      []byte
}

func toTxRLP(t OwshenTransaction) (txRLP, error) {
	if t.Eth != nil {
		raw, err := t.Eth.MarshalBinary()
		if err != nil {
			return txRLP{}, err
		}
		return txRLP{EthRaw: raw}, nil
	}
	return txRLP{IsCustom: true, ChainID: t.Custom.ChainID, Msg: t.Custom.Msg, Sig: t.Custom.Sig}, nil
}

func (b Block) toRLP() (blockRLP, error) {
	out := blockRLP{Index: b.Index, Timestamp: b.Timestamp}
	if b.PrevHash != nil {
		out.HasPrevHash = true
		out.PrevHash = *b.PrevHash
	}
	for _, t := range b.Txs {
		r, err := toTxRLP(t)
		if err != nil {
			return blockRLP{}, err
		}
		out.Txs = append(out.Txs, r)
	}
	return out, nil
}

// unsignedBytes is the canonical RLP encoding of the block with Sig
// cleared, the preimage for both signing and hashing (spec §6 "Block
// signing").
func (b Block) unsignedBytes() ([]byte, error) {
	r, err := b.toRLP()
	if err != nil {
		return nil, err
	}
	return rlp.EncodeToBytes(r)
}

// Hash is keccak256 of the block's unsigned RLP encoding, following
// core/replication.go's RLP-then-hash pattern generalized with the
// sig-cleared-before-hash rule from the original's Block::hash.
func (b Block) Hash() (Hash, error) {
	enc, err := b.unsignedBytes()
	if err != nil {
		return Hash{}, err
	}
	return Hash(crypto.Keccak256Hash(enc)), nil
}

// Sign produces a new Block with Sig set to the owner's signature over Hash().
func (b Block) Sign(priv *ecdsa.PrivateKey) (Block, error) {
	h, err := b.Hash()
	if err != nil {
		return Block{}, err
	}
	sig, err := crypto.Sign(h[:], priv)
	if err != nil {
		return Block{}, err
	}
	signed := b
	signed.Sig = sig
	return signed, nil
}

// IsSignedBy reports whether Sig recovers to addr over Hash().
func (b Block) IsSignedBy(addr Address) bool {
	if len(b.Sig) != 65 {
		return false
	}
	h, err := b.Hash()
	if err != nil {
		return false
	}
	pub, err := crypto.SigToPub(h[:], b.Sig)
	if err != nil {
		return false
	}
	return FromCommon(crypto.PubkeyToAddress(*pub)) == addr
}
