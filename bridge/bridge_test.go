package bridge

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	core "xchain/core"
)

func newTestFacade(t *testing.T) (*Facade, *core.OperatorSigner) {
	t.Helper()
	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	signer := core.NewOperatorSigner(priv)

	chain, err := core.NewBlockchain(core.NewMemStore(), core.ChainConfig{ChainID: 1387}, nil)
	if err != nil {
		t.Fatalf("new blockchain: %v", err)
	}
	queue := core.NewTransactionQueue()
	return New(chain, queue, signer, "", core.ZeroAddress), signer
}

func TestDepositDevModeSkipsUpstreamVerification(t *testing.T) {
	f, _ := newTestFacade(t)
	body, _ := json.Marshal(depositRequest{
		TxHash:  "0xdeadbeef00000000000000000000000000000000000000000000000000000000",
		Token:   "native",
		Amount:  "1000",
		Address: core.Address{19: 0xAA}.Hex(),
	})

	req := httptest.NewRequest(http.MethodPost, "/deposit", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	f.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if f.Queue.Len() != 1 {
		t.Fatalf("queue length = %d, want 1", f.Queue.Len())
	}
	if !f.Chain.HasDepositedTransaction("0xdeadbeef00000000000000000000000000000000000000000000000000000000") {
		t.Fatalf("deposit was not recorded")
	}
}

func TestDepositRejectsDuplicate(t *testing.T) {
	f, _ := newTestFacade(t)
	reqBody := func() *bytes.Reader {
		body, _ := json.Marshal(depositRequest{
			TxHash:  "0xcafe000000000000000000000000000000000000000000000000000000000000",
			Token:   "native",
			Amount:  "1",
			Address: core.Address{19: 0x01}.Hex(),
		})
		return bytes.NewReader(body)
	}

	rr := httptest.NewRecorder()
	f.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/deposit", reqBody()))
	if rr.Code != http.StatusOK {
		t.Fatalf("first deposit status = %d", rr.Code)
	}

	rr2 := httptest.NewRecorder()
	f.Router().ServeHTTP(rr2, httptest.NewRequest(http.MethodPost, "/deposit", reqBody()))
	if rr2.Code != http.StatusConflict {
		t.Fatalf("duplicate deposit status = %d, want %d", rr2.Code, http.StatusConflict)
	}
}

func TestWithdrawRecoversSignerAndGuardsBurnID(t *testing.T) {
	f, _ := newTestFacade(t)

	burn := core.Burn{
		BurnID:  core.Hash{1},
		Network: "eth",
		Token:   core.NativeToken,
		Amount:  nil,
	}
	raw, err := burn.EncodeRLP()
	if err != nil {
		t.Fatalf("encode burn: %v", err)
	}

	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	custom, err := core.CreateCustomTx(priv, 1387, raw)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	body, _ := json.Marshal(withdrawRequest{
		RLPBurn: "0x" + hex.EncodeToString(raw),
		Sig:     "0x" + hex.EncodeToString(custom.Sig),
	})

	req := httptest.NewRequest(http.MethodGet, "/withdraw", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	f.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if !f.Chain.HasBurnID(burn.BurnID) {
		t.Fatalf("burn id was not marked")
	}

	rr2 := httptest.NewRecorder()
	f.Router().ServeHTTP(rr2, httptest.NewRequest(http.MethodGet, "/withdraw", bytes.NewReader(body)))
	if rr2.Code != http.StatusConflict {
		t.Fatalf("double withdraw status = %d, want %d", rr2.Code, http.StatusConflict)
	}
}
