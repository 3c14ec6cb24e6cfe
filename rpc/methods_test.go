package rpc

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	gethrpc "github.com/ethereum/go-ethereum/rpc"

	core "xchain/core"
)

func newTestAPI(t *testing.T) (*EthAPI, *core.Blockchain, *core.TransactionQueue) {
	t.Helper()
	chain, err := core.NewBlockchain(core.NewMemStore(), core.ChainConfig{ChainID: 1387}, nil)
	if err != nil {
		t.Fatalf("new blockchain: %v", err)
	}
	queue := core.NewTransactionQueue()
	return &EthAPI{chain: chain, queue: queue}, chain, queue
}

func TestBlockNumberAndChainId(t *testing.T) {
	api, _, _ := newTestAPI(t)
	if got := api.BlockNumber(); got != 0 {
		t.Fatalf("BlockNumber = %d, want 0", got)
	}
	if got := api.ChainId(); (*big.Int)(got).Uint64() != 1387 {
		t.Fatalf("ChainId = %v, want 1387", got)
	}
}

func TestGetBalanceDefaultsToZero(t *testing.T) {
	api, _, _ := newTestAPI(t)
	bal, err := api.GetBalance(common.Address{1, 2, 3}, gethrpc.BlockNumberOrHash{})
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if (*big.Int)(bal).Sign() != 0 {
		t.Fatalf("balance = %v, want 0", bal)
	}
}

func TestSendRawTransactionEnqueuesEip1559Envelope(t *testing.T) {
	api, _, queue := newTestAPI(t)

	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	to := common.Address{9}
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   big.NewInt(1387),
		Nonce:     0,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(1),
		Gas:       21000,
		To:        &to,
		Value:     big.NewInt(100),
	})
	signed, err := types.SignTx(tx, types.NewLondonSigner(big.NewInt(1387)), priv)
	if err != nil {
		t.Fatalf("sign tx: %v", err)
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal tx: %v", err)
	}

	hash, err := api.SendRawTransaction(hexutil.Bytes(raw))
	if err != nil {
		t.Fatalf("SendRawTransaction: %v", err)
	}
	if hash == (common.Hash{}) {
		t.Fatalf("returned zero hash")
	}
	if queue.Len() != 1 {
		t.Fatalf("queue length = %d, want 1", queue.Len())
	}
}

func TestSendRawTransactionRejectsLegacyEnvelope(t *testing.T) {
	api, _, _ := newTestAPI(t)

	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	to := common.Address{9}
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(1),
		Gas:      21000,
		To:       &to,
		Value:    big.NewInt(100),
	})
	signed, err := types.SignTx(tx, types.NewEIP155Signer(big.NewInt(1387)), priv)
	if err != nil {
		t.Fatalf("sign tx: %v", err)
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal tx: %v", err)
	}

	if _, err := api.SendRawTransaction(hexutil.Bytes(raw)); err != core.ErrOnlyEIP1559 {
		t.Fatalf("err = %v, want ErrOnlyEIP1559", err)
	}
}

func TestGetBlockByNumberEmptyChainErrors(t *testing.T) {
	api, _, _ := newTestAPI(t)
	if _, err := api.GetBlockByNumber(gethrpc.LatestBlockNumber, false); err != core.ErrBadBlockIndex {
		t.Fatalf("err = %v, want ErrBadBlockIndex", err)
	}
}

func TestGetBlockByNumberAfterDraftAndPush(t *testing.T) {
	api, chain, queue := newTestAPI(t)
	block, err := chain.DraftBlock(queue, 12345)
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if err := chain.PushBlock(block); err != nil {
		t.Fatalf("push: %v", err)
	}

	out, err := api.GetBlockByNumber(gethrpc.LatestBlockNumber, false)
	if err != nil {
		t.Fatalf("GetBlockByNumber: %v", err)
	}
	if out["number"] != hexutil.Uint64(0) {
		t.Fatalf("number = %v, want 0", out["number"])
	}
	if out["timestamp"] != hexutil.Uint64(12345) {
		t.Fatalf("timestamp = %v, want 12345", out["timestamp"])
	}
}

func TestCallDefaultsToZeroBalance(t *testing.T) {
	api, _, _ := newTestAPI(t)
	out, err := api.Call(CallArgs{}, gethrpc.BlockNumberOrHash{})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(out) != 32 {
		t.Fatalf("len(out) = %d, want 32", len(out))
	}
	for _, b := range out {
		if b != 0 {
			t.Fatalf("expected all-zero balanceOf encoding, got %x", out)
		}
	}
}

func TestEstimateGasScalesWithInputLength(t *testing.T) {
	api, _, _ := newTestAPI(t)
	data := hexutil.Bytes(make([]byte, 10))
	args := CallArgs{Data: &data}
	got, err := api.EstimateGas(args, nil)
	if err != nil {
		t.Fatalf("EstimateGas: %v", err)
	}
	if got != 680 {
		t.Fatalf("EstimateGas = %d, want 680", got)
	}
}
