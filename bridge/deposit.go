package bridge

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/holiman/uint256"

	core "xchain/core"
)

// depositRequest mirrors spec §4.5's POST /deposit body. Token carries
// either the literal "native" or a parseable ERC-20 contract address — the
// redesigned branch condition (see DESIGN.md Open Question 6); the original
// matched the literal string "erc20" against this same field, which can
// never equal a hex address.
type depositRequest struct {
	TxHash  string `json:"tx_hash"`
	Token   string `json:"token"`
	Amount  string `json:"amount"`
	Address string `json:"address"`
}

type depositResponse struct {
	CustomTxHash string `json:"custom_tx_hash"`
}

// Deposit handles POST /deposit: verifies (on mainnet) that tx_hash
// resolves upstream to a transfer into the owshen contract, guards against
// replay via DepositedTransaction, and enqueues a signed Mint.
func (f *Facade) Deposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	addr, err := core.ParseAddress(req.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	amountBig, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok || amountBig.Sign() < 0 {
		writeError(w, http.StatusBadRequest, errInvalidAmount)
		return
	}
	amount, overflow := uint256.FromBig(amountBig)
	if overflow {
		writeError(w, http.StatusBadRequest, errInvalidAmount)
		return
	}

	token, err := f.resolveDepositToken(req.Token)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	chainID := f.Chain.Config().ChainID
	if chainID == MainnetChainID {
		ctx, cancel := context.WithTimeout(r.Context(), UpstreamTimeout)
		defer cancel()
		if err := f.verifyUpstreamDeposit(ctx, req.TxHash); err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
	}

	if f.Chain.HasDepositedTransaction(req.TxHash) {
		writeError(w, http.StatusConflict, errDepositAlreadyExists)
		return
	}

	txHash, err := hex.DecodeString(trim0x(req.TxHash))
	if err != nil || len(txHash) != 32 {
		writeError(w, http.StatusBadRequest, errInvalidTxHash)
		return
	}

	mint := core.Mint{
		TxHash:     txHash,
		UserTxHash: req.TxHash,
		Token:      token,
		Amount:     amount,
		Address:    addr,
	}
	msg, err := mint.EncodeRLP()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	signed, err := f.Signer.SignCustomMsg(chainID, msg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if err := f.Chain.MarkDepositedTransaction(req.TxHash); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	f.Queue.Push(core.CustomTransaction(signed))
	f.log.WithField("address", req.Address).Info("deposit enqueued")

	hash, err := core.CustomTransaction(signed).Hash()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, depositResponse{CustomTxHash: hash.Hex()})
}

// resolveDepositToken branches on whether token is the literal "native" or a
// parseable ERC-20 address, per the REDESIGN FLAG in spec §10: the original
// matched on the literal "erc20" against a field that actually carries a hex
// address, so that branch was dead code.
func (f *Facade) resolveDepositToken(token string) (core.Token, error) {
	if token == "native" {
		return core.NativeToken, nil
	}
	addr, err := core.ParseAddress(token)
	if err != nil {
		return core.Token{}, errUnrecognizedDepositToken
	}
	decimals := f.Chain.GetTokenDecimal(addr)
	symbol := f.Chain.GetTokenSymbol(addr)
	return core.Erc20Token(addr, decimals, symbol), nil
}
