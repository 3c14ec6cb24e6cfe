package core

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

func TestMintRLPRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		mint Mint
	}{
		{
			name: "native",
			mint: Mint{
				TxHash:     make([]byte, 32),
				UserTxHash: "0xdeadbeef",
				Token:      NativeToken,
				Amount:     uint256.NewInt(100),
				Address:    Address{19: 0xAA},
			},
		},
		{
			name: "erc20",
			mint: Mint{
				TxHash:     make([]byte, 32),
				UserTxHash: "0xcafebabe",
				Token:      Erc20Token(Address{19: 6}, uint256.NewInt(18), "USDC"),
				Amount:     uint256.NewInt(5000),
				Address:    Address{19: 0xBB},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			enc, err := tc.mint.EncodeRLP()
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := DecodeMintRLP(enc)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.UserTxHash != tc.mint.UserTxHash {
				t.Fatalf("UserTxHash = %q, want %q", got.UserTxHash, tc.mint.UserTxHash)
			}
			if got.Amount.Cmp(tc.mint.Amount) != 0 {
				t.Fatalf("Amount = %v, want %v", got.Amount, tc.mint.Amount)
			}
			if got.Address != tc.mint.Address {
				t.Fatalf("Address = %v, want %v", got.Address, tc.mint.Address)
			}
			if got.Token.IsErc20 != tc.mint.Token.IsErc20 {
				t.Fatalf("Token.IsErc20 = %v, want %v", got.Token.IsErc20, tc.mint.Token.IsErc20)
			}
		})
	}
}

func TestBurnRLPRoundTripWithAndWithoutCalldata(t *testing.T) {
	addr := Address{19: 0x42}
	base := Burn{
		BurnID:  Hash{1},
		Network: "eth",
		Token:   NativeToken,
		Amount:  uint256.NewInt(42),
	}

	withCalldata := base
	withCalldata.Calldata = &addr

	for name, b := range map[string]Burn{"no calldata": base, "with calldata": withCalldata} {
		t.Run(name, func(t *testing.T) {
			enc, err := b.EncodeRLP()
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := DecodeBurnRLP(enc)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.BurnID != b.BurnID || got.Network != b.Network {
				t.Fatalf("round-trip mismatch: %+v", got)
			}
			if (got.Calldata == nil) != (b.Calldata == nil) {
				t.Fatalf("calldata presence mismatch: got %v, want %v", got.Calldata, b.Calldata)
			}
			if b.Calldata != nil && *got.Calldata != *b.Calldata {
				t.Fatalf("calldata address mismatch: got %v, want %v", *got.Calldata, *b.Calldata)
			}
		})
	}
}

func TestCustomTxSignerRecovery(t *testing.T) {
	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	want := FromCommon(crypto.PubkeyToAddress(priv.PublicKey))

	msg := []byte("hello owshen")
	tx, err := CreateCustomTx(priv, 1387, msg)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := tx.Signer()
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	if got != want {
		t.Fatalf("recovered signer = %v, want %v", got, want)
	}
}
