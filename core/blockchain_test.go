package core

import (
	"testing"

	"github.com/holiman/uint256"
)

func newTestChain(t *testing.T) *Blockchain {
	t.Helper()
	bc, err := NewBlockchain(NewMemStore(), ChainConfig{ChainID: 1387}, nil)
	if err != nil {
		t.Fatalf("NewBlockchain: %v", err)
	}
	return bc
}

func TestBootEmptyThreeDraftsThenPop(t *testing.T) {
	bc := newTestChain(t)
	queue := NewTransactionQueue()

	for i := 0; i < 3; i++ {
		block, err := bc.DraftBlock(queue, uint64(1000+i))
		if err != nil {
			t.Fatalf("draft %d: %v", i, err)
		}
		if err := bc.PushBlock(block); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if got := bc.Height(); got != 3 {
		t.Fatalf("height after 3 pushes = %d, want 3", got)
	}

	for i := 0; i < 3; i++ {
		if _, err := bc.PopBlock(); err != nil {
			t.Fatalf("pop %d: %v", i, err)
		}
	}
	if got := bc.Height(); got != 0 {
		t.Fatalf("height after 3 pops = %d, want 0", got)
	}

	b, err := bc.PopBlock()
	if err != nil {
		t.Fatalf("pop on empty chain: %v", err)
	}
	if b != nil {
		t.Fatalf("pop on empty chain returned a block: %+v", b)
	}
}

func TestPushBlockRejectsBadIndexAndPrevHash(t *testing.T) {
	bc := newTestChain(t)

	tests := []struct {
		name    string
		block   Block
		wantErr error
	}{
		{
			name:    "wrong index",
			block:   Block{Index: 1, Timestamp: 1},
			wantErr: ErrBadBlockIndex,
		},
		{
			name:    "nonzero prev hash at genesis",
			block:   Block{Index: 0, PrevHash: &Hash{1}, Timestamp: 1},
			wantErr: ErrBadPreviousHash,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := bc.PushBlock(tc.block); err != tc.wantErr {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestPushBlockLinkage(t *testing.T) {
	bc := newTestChain(t)
	queue := NewTransactionQueue()

	genesisBlock, err := bc.DraftBlock(queue, 1)
	if err != nil {
		t.Fatalf("draft genesis: %v", err)
	}
	if err := bc.PushBlock(genesisBlock); err != nil {
		t.Fatalf("push genesis: %v", err)
	}
	genesisHash, err := genesisBlock.Hash()
	if err != nil {
		t.Fatalf("hash genesis: %v", err)
	}

	next, err := bc.DraftBlock(queue, 2)
	if err != nil {
		t.Fatalf("draft next: %v", err)
	}
	if next.PrevHash == nil || *next.PrevHash != genesisHash {
		t.Fatalf("drafted block's prev hash mismatch")
	}
	if err := bc.PushBlock(next); err != nil {
		t.Fatalf("push next: %v", err)
	}

	b1, err := bc.GetBlock(1)
	if err != nil {
		t.Fatalf("get block 1: %v", err)
	}
	b0, err := bc.GetBlock(0)
	if err != nil {
		t.Fatalf("get block 0: %v", err)
	}
	h0, _ := b0.Hash()
	if b1.PrevHash == nil || *b1.PrevHash != h0 {
		t.Fatalf("block-hash linkage violated")
	}
}

func TestMintThenDuplicateMintFails(t *testing.T) {
	bc := newTestChain(t)
	var addr Address
	addr[19] = 0xAA

	mint := Mint{
		TxHash:     make([]byte, 32),
		UserTxHash: "0x1234",
		Token:      NativeToken,
		Amount:     mustU256(100),
		Address:    addr,
	}
	if err := applyMint(bc.store, mint); err != nil {
		t.Fatalf("first mint: %v", err)
	}
	bal := bc.GetBalance(addr, NativeToken)
	if bal.Uint64() != 100 {
		t.Fatalf("balance after mint = %d, want 100", bal.Uint64())
	}
	// record the IncludedTransaction under the mint's own tx_hash, as
	// push_block would, then retry the identical mint.
	if err := PutTransactionByHash(bc.store, BytesToHash(mint.TxHash), IncludedTransaction{}); err != nil {
		t.Fatalf("record tx hash: %v", err)
	}
	if err := applyMint(bc.store, mint); err != ErrTxAlreadyExists {
		t.Fatalf("duplicate mint err = %v, want %v", err, ErrTxAlreadyExists)
	}
}

func TestApproveIsAdditive(t *testing.T) {
	s := NewMemStore()
	var owner, spender Address
	owner[19] = 1
	spender[19] = 2
	token := Erc20Token(Address{19: 6}, mustU256(0), "Unknown")

	if err := applyErc20Approve(s, owner, spender, token, mustU256(100)); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if err := applyErc20Approve(s, owner, spender, token, mustU256(100)); err != nil {
		t.Fatalf("second approve: %v", err)
	}
	got := GetAllowance(s, owner, spender, token)
	if got.Uint64() != 200 {
		t.Fatalf("allowance = %d, want 200 (additive)", got.Uint64())
	}
}

func mustU256(v uint64) *uint256.Int { return uint256.NewInt(v) }
