package core

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"
)

// genesisDecimals is the fixed-point scale genesis balances are expressed
// in, per spec §6 ("amounts parsed as decimal units with 18 decimals").
const genesisDecimals = 18

// genesisBalanceEntry mirrors the {address, amount} pairs of
// original_source/src/genesis.rs's Balance struct.
type genesisBalanceEntry struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

// genesisTokenEntry mirrors original_source/src/genesis.rs's TokenData:
// a token (native or ERC-20, contract_address/decimal/symbol only present
// for ERC-20) plus its initial balance table.
type genesisTokenEntry struct {
	TokenType       string                `json:"token_type"`
	ContractAddress *string               `json:"contract_address,omitempty"`
	Decimal         *uint64               `json:"decimal,omitempty"`
	Symbol          *string               `json:"symbol,omitempty"`
	Balances        []genesisBalanceEntry `json:"balances"`
}

// Genesis is the immutable fallback balance table consulted only on a
// Balance store-miss (spec §3, "Genesis balance" in the glossary).
type Genesis struct {
	balances map[string]*uint256.Int // key: string(KeyBalance(addr, token))
}

// LoadGenesis parses the JSON genesis file at path into an immutable
// fallback table. Amounts are decimal strings scaled by 10^18, matching the
// original's parse_units(&balance.amount, 18).
func LoadGenesis(path string) (*Genesis, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading genesis file: %w", err)
	}
	var entries []genesisTokenEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parsing genesis file: %w", err)
	}
	g := &Genesis{balances: make(map[string]*uint256.Int)}
	for _, entry := range entries {
		tok, err := entry.token()
		if err != nil {
			return nil, err
		}
		for _, bal := range entry.Balances {
			addr, err := ParseAddress(bal.Address)
			if err != nil {
				return nil, fmt.Errorf("genesis balance address %q: %w", bal.Address, err)
			}
			amount, err := parseDecimalUnits(bal.Amount, genesisDecimals)
			if err != nil {
				return nil, fmt.Errorf("genesis balance amount %q: %w", bal.Amount, err)
			}
			g.balances[string(KeyBalance(addr, tok))] = amount
		}
	}
	logrus.WithField("tokens", len(entries)).Info("genesis loaded")
	return g, nil
}

func (e genesisTokenEntry) token() (Token, error) {
	switch e.TokenType {
	case "native", "":
		return NativeToken, nil
	case "erc20":
		if e.ContractAddress == nil {
			return Token{}, fmt.Errorf("genesis erc20 entry missing contract_address")
		}
		addr, err := ParseAddress(*e.ContractAddress)
		if err != nil {
			return Token{}, err
		}
		var decimals uint64
		if e.Decimal != nil {
			decimals = *e.Decimal
		}
		symbol := "Unknown"
		if e.Symbol != nil {
			symbol = *e.Symbol
		}
		return Erc20Token(addr, uint256.NewInt(decimals), symbol), nil
	default:
		return Token{}, fmt.Errorf("unknown genesis token_type %q", e.TokenType)
	}
}

// parseDecimalUnits parses a decimal string (e.g. "1.5") into a u256 fixed
// point value scaled by 10^decimals.
func parseDecimalUnits(s string, decimals int) (*uint256.Int, error) {
	f, ok := new(big.Float).SetPrec(256).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid decimal amount %q", s)
	}
	scale := new(big.Float).SetPrec(256).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	scaled := new(big.Float).SetPrec(256).Mul(f, scale)
	i, _ := scaled.Int(nil)
	if i.Sign() < 0 {
		return nil, fmt.Errorf("negative genesis amount %q", s)
	}
	out, overflow := uint256.FromBig(i)
	if overflow {
		return nil, fmt.Errorf("genesis amount %q overflows u256", s)
	}
	return out, nil
}

// Balance returns the fallback balance for (addr, tok), or zero if no
// genesis entry exists.
func (g *Genesis) Balance(addr Address, tok Token) *uint256.Int {
	if g == nil {
		return uint256.NewInt(0)
	}
	if v, ok := g.balances[string(KeyBalance(addr, tok))]; ok {
		return v
	}
	return uint256.NewInt(0)
}
