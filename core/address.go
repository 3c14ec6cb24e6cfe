package core

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Address is a 20-byte Ethereum-style account identifier.
type Address [20]byte

// ZeroAddress is the all-zero address, reported as the "to" of Custom
// transactions in RPC projections.
var ZeroAddress Address

// FromCommon converts a go-ethereum common.Address into an Address.
func FromCommon(a common.Address) Address {
	var out Address
	copy(out[:], a.Bytes())
	return out
}

// Common converts an Address back into a go-ethereum common.Address.
func (a Address) Common() common.Address {
	return common.BytesToAddress(a[:])
}

// Hex renders the address with a 0x prefix and EIP-55 mixed-case checksum.
func (a Address) Hex() string {
	return a.Common().Hex()
}

func (a Address) String() string { return a.Hex() }

// ParseAddress accepts a 0x-prefixed or bare hex address string.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, err
	}
	if len(b) != 20 {
		return Address{}, errAddressLength
	}
	var out Address
	copy(out[:], b)
	return out, nil
}

// Hash is a 32-byte digest (block hash, transaction hash, burn id, ...).
type Hash [32]byte

func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

// Bytes returns a fresh copy of the underlying bytes.
func (h Hash) Bytes() []byte {
	out := make([]byte, 32)
	copy(out, h[:])
	return out
}

func BytesToHash(b []byte) Hash {
	var h Hash
	copy(h[32-len(b):], b)
	return h
}

// Common converts a Hash into a go-ethereum common.Hash.
func (h Hash) Common() common.Hash {
	return common.BytesToHash(h[:])
}
