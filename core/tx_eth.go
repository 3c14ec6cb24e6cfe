package core

import (
	"github.com/ethereum/go-ethereum/core/types"
)

// DecodeEthTx decodes a raw RLP-encoded transaction envelope and rejects
// anything but EIP-1559 (DynamicFeeTxType), per spec §3.
func DecodeEthTx(raw []byte) (*types.Transaction, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	if tx.Type() != types.DynamicFeeTxType {
		return nil, ErrOnlyEIP1559
	}
	return tx, nil
}

// EthSigner returns the signer used to recover senders and hash EIP-1559
// envelopes for the given chain id.
func EthSigner(chainID uint64) types.Signer {
	return types.NewLondonSigner(newChainID(chainID))
}
