package core

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
)

// OperatorSigner holds the single owner key that authorizes blocks and
// operator-synthesized Mint/Burn transactions. Grounded on core/wallet.go's
// SignTx shape, but secp256k1 (go-ethereum) rather than ed25519, since
// blocks and Custom transactions recover Ethereum-style addresses.
type OperatorSigner struct {
	priv *ecdsa.PrivateKey
	addr Address
}

func NewOperatorSigner(priv *ecdsa.PrivateKey) *OperatorSigner {
	return &OperatorSigner{priv: priv, addr: FromCommon(crypto.PubkeyToAddress(priv.PublicKey))}
}

// OperatorSignerFromHex loads the owner key from a hex-encoded private key,
// the same shape config.Owner.KeyHex is expected to carry.
func OperatorSignerFromHex(hexKey string) (*OperatorSigner, error) {
	priv, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, err
	}
	return NewOperatorSigner(priv), nil
}

func (s *OperatorSigner) Address() Address { return s.addr }

func (s *OperatorSigner) SignBlock(b Block) (Block, error) {
	return b.Sign(s.priv)
}

func (s *OperatorSigner) SignCustomMsg(chainID uint64, msg []byte) (CustomTx, error) {
	return CreateCustomTx(s.priv, chainID, msg)
}
