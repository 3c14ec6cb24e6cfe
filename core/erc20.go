package core

import (
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// ERC-20 selectors are derived the way original_source/blockchain/tx/erc20.rs
// derives them (keccak256 of the method signature) rather than hard-coded,
// so the table is self-documenting.
var (
	selectorTransfer     = selector("transfer(address,uint256)")
	selectorTransferFrom = selector("transferFrom(address,address,uint256)")
	selectorApprove      = selector("approve(address,uint256)")

	// Read-only selectors used by eth_call (§4.6).
	selectorERC165       = selector("supportsInterface(bytes4)")
	selectorBalanceOf    = selector("balanceOf(address)")
	selectorDecimals     = selector("decimals()")
	selectorSymbol       = selector("symbol()")
)

func selector(sig string) [4]byte {
	var s [4]byte
	copy(s[:], crypto.Keccak256([]byte(sig))[:4])
	return s
}

// Erc20Call is a decoded ERC-20 method invocation against a token contract.
type Erc20Call struct {
	Kind       Erc20CallKind
	Recipient  Address
	From       Address
	Spender    Address
	Value      *uint256.Int
}

type Erc20CallKind int

const (
	Erc20CallUnknown Erc20CallKind = iota
	Erc20CallTransfer
	Erc20CallTransferFrom
	Erc20CallApprove
)

// DecodeErc20Call inspects the first four bytes of calldata and decodes the
// ABI-encoded arguments for transfer/transferFrom/approve. Returns
// Erc20CallUnknown (not an error) for any other selector, including inputs
// shorter than 4 bytes — the caller decides whether that falls back to a
// native transfer or fails, per spec §4.3.
func DecodeErc20Call(data []byte) (Erc20Call, bool) {
	if len(data) < 4 {
		return Erc20Call{}, false
	}
	var sel [4]byte
	copy(sel[:], data[:4])
	args := data[4:]
	switch sel {
	case selectorTransfer:
		if len(args) < 64 {
			return Erc20Call{}, false
		}
		return Erc20Call{
			Kind:      Erc20CallTransfer,
			Recipient: addrFromSlice(args[12:32]),
			Value:     uint256.NewInt(0).SetBytes(args[32:64]),
		}, true
	case selectorTransferFrom:
		if len(args) < 96 {
			return Erc20Call{}, false
		}
		return Erc20Call{
			Kind:      Erc20CallTransferFrom,
			From:      addrFromSlice(args[12:32]),
			Recipient: addrFromSlice(args[44:64]),
			Value:     uint256.NewInt(0).SetBytes(args[64:96]),
		}, true
	case selectorApprove:
		if len(args) < 64 {
			return Erc20Call{}, false
		}
		return Erc20Call{
			Kind:      Erc20CallApprove,
			Spender:   addrFromSlice(args[12:32]),
			Value:     uint256.NewInt(0).SetBytes(args[32:64]),
		}, true
	default:
		return Erc20Call{}, false
	}
}

// EncodeBalanceOf ABI-encodes a uint256 return value, used by eth_call's
// balanceOf/decimals dispatch.
func EncodeBalanceOf(v *uint256.Int) []byte {
	out := make([]byte, 32)
	v.WriteToSlice(out)
	return out
}

// EncodeBool ABI-encodes a bool return value (ERC-165 supportsInterface).
func EncodeBool(b bool) []byte {
	out := make([]byte, 32)
	if b {
		out[31] = 1
	}
	return out
}

// EncodeString ABI-encodes a dynamic string return value (symbol()).
func EncodeString(s string) []byte {
	offset := make([]byte, 32)
	offset[31] = 32
	length := make([]byte, 32)
	new(big.Int).SetInt64(int64(len(s))).FillBytes(length)
	data := []byte(s)
	pad := (32 - len(data)%32) % 32
	data = append(data, make([]byte, pad)...)
	out := append(offset, length...)
	out = append(out, data...)
	return out
}

// EthCallSelector classifies the first four bytes of eth_call calldata for
// the read-only dispatch of spec §4.6.
func EthCallSelector(data []byte) ([4]byte, bool) {
	if len(data) < 4 {
		return [4]byte{}, false
	}
	var sel [4]byte
	copy(sel[:], data[:4])
	return sel, true
}

func IsERC165(sel [4]byte) bool    { return sel == selectorERC165 }
func IsBalanceOf(sel [4]byte) bool { return sel == selectorBalanceOf }
func IsDecimals(sel [4]byte) bool  { return sel == selectorDecimals }
func IsSymbol(sel [4]byte) bool    { return sel == selectorSymbol }
