package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"
)

func TestLoadGenesisAndFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genesis.json")
	content := `[
		{"token_type":"native","balances":[{"address":"0x00000000000000000000000000000000000000aa","amount":"1.5"}]},
		{"token_type":"erc20","contract_address":"0x000000000000000000000000000000000000aabb","decimal":18,"symbol":"USDC","balances":[{"address":"0x00000000000000000000000000000000000000cc","amount":"2"}]}
	]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write genesis: %v", err)
	}

	g, err := LoadGenesis(path)
	if err != nil {
		t.Fatalf("LoadGenesis: %v", err)
	}

	aa, err := ParseAddress("0x00000000000000000000000000000000000000aa")
	if err != nil {
		t.Fatalf("parse address: %v", err)
	}
	got := g.Balance(aa, NativeToken)
	want := "1500000000000000000" // 1.5 * 10^18
	if got.Dec() != want {
		t.Fatalf("native genesis balance = %s, want %s", got.Dec(), want)
	}

	cc, _ := ParseAddress("0x00000000000000000000000000000000000000cc")
	tokenAddr, _ := ParseAddress("0x000000000000000000000000000000000000aabb")
	tok := Erc20Token(tokenAddr, uint256.NewInt(18), "USDC")
	gotERC20 := g.Balance(cc, tok)
	if gotERC20.Dec() != "2000000000000000000" {
		t.Fatalf("erc20 genesis balance = %s, want 2000000000000000000", gotERC20.Dec())
	}

	missing, _ := ParseAddress("0x000000000000000000000000000000000000dead")
	if g.Balance(missing, NativeToken).Sign() != 0 {
		t.Fatalf("untouched address should have zero fallback balance")
	}
}
