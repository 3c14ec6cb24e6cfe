package core

import "github.com/holiman/uint256"

// Token is a two-variant sum: the native asset, or an ERC-20 identified by
// its contract address plus denormalized decimals/symbol metadata.
//
// Sharp edge (flagged, not fixed — see DESIGN.md "Token identity trap"):
// two Erc20 values with the same Address but different Decimals/Symbol are
// distinct keys in the balance table. Changing metadata after balances have
// accrued under the old metadata orphans them.
type Token struct {
	IsErc20  bool
	Address  Address
	Decimals *uint256.Int
	Symbol   string
}

// NativeToken is the canonical Native token value.
var NativeToken = Token{}

// Erc20Token constructs an ERC-20 token identity.
func Erc20Token(addr Address, decimals *uint256.Int, symbol string) Token {
	if decimals == nil {
		decimals = uint256.NewInt(0)
	}
	return Token{IsErc20: true, Address: addr, Decimals: decimals, Symbol: symbol}
}

func (t Token) rlpDecimals() *uint256.Int {
	if t.Decimals == nil {
		return uint256.NewInt(0)
	}
	return t.Decimals
}

// tokenRLP is the wire/key shape of Token; decimals defaults to zero so a
// nil pointer never reaches the RLP encoder.
type tokenRLP struct {
	IsErc20  bool
	Address  Address
	Decimals *uint256.Int
	Symbol   string
}

func (t Token) toRLP() tokenRLP {
	return tokenRLP{IsErc20: t.IsErc20, Address: t.Address, Decimals: t.rlpDecimals(), Symbol: t.Symbol}
}
