package core

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

func newChainID(id uint64) *big.Int { return new(big.Int).SetUint64(id) }

// OwshenTransaction is the two-variant transaction sum: an EIP-1559 Ethereum
// envelope, or a signed Custom (Mint/Burn) message.
type OwshenTransaction struct {
	Eth    *types.Transaction
	Custom *CustomTx
}

func EthTransaction(tx *types.Transaction) OwshenTransaction {
	return OwshenTransaction{Eth: tx}
}

func CustomTransaction(tx CustomTx) OwshenTransaction {
	return OwshenTransaction{Custom: &tx}
}

func (t OwshenTransaction) IsCustom() bool { return t.Custom != nil }

// ChainID returns the chain id the transaction claims to be signed for.
func (t OwshenTransaction) ChainID() (uint64, error) {
	if t.Eth != nil {
		if t.Eth.ChainId() == nil {
			return 0, fmt.Errorf("Chain-id not provided!")
		}
		return t.Eth.ChainId().Uint64(), nil
	}
	return t.Custom.ChainID, nil
}

// Signer recovers the address that authorized this transaction.
func (t OwshenTransaction) Signer() (Address, error) {
	if t.Eth != nil {
		chainID := uint64(0)
		if t.Eth.ChainId() != nil {
			chainID = t.Eth.ChainId().Uint64()
		}
		sender, err := types.Sender(EthSigner(chainID), t.Eth)
		if err != nil {
			return Address{}, err
		}
		return FromCommon(sender), nil
	}
	return t.Custom.Signer()
}

// Hash returns the transaction's identity hash: the envelope's own hash for
// Eth transactions, keccak256 of the CustomTx record (signature included)
// for Custom — matching the original's "not just the RLP" requirement.
func (t OwshenTransaction) Hash() (Hash, error) {
	if t.Eth != nil {
		return Hash(t.Eth.Hash()), nil
	}
	enc, err := encodeCustomTxForHash(*t.Custom)
	if err != nil {
		return Hash{}, err
	}
	return Hash(crypto.Keccak256Hash(enc)), nil
}

func encodeCustomTxForHash(tx CustomTx) ([]byte, error) {
	buf := make([]byte, 0, 8+len(tx.Msg)+len(tx.Sig))
	var chainBuf [8]byte
	for i := 0; i < 8; i++ {
		chainBuf[7-i] = byte(tx.ChainID >> (8 * i))
	}
	buf = append(buf, chainBuf[:]...)
	buf = append(buf, tx.Msg...)
	buf = append(buf, tx.Sig...)
	return buf, nil
}
