package bridge

import (
	"encoding/hex"
	"encoding/json"
	"net/http"

	core "xchain/core"
)

// withdrawRequest mirrors spec §4.5's GET /withdraw body: a hex-encoded RLP
// Burn (without calldata) plus a personal-message signature over those same
// bytes, from which the façade recovers the destination address.
type withdrawRequest struct {
	RLPBurn string `json:"rlp_burn"`
	Sig     string `json:"sig"`
}

type withdrawResponse struct {
	CustomTxHash string `json:"custom_tx_hash"`
}

// Withdraw handles GET /withdraw: decodes rlp_burn, recovers the submitter
// from sig, fills in Calldata, and enqueues a signed Burn — rejecting a used
// BurnId and marking it here, since applyBurn checks BurnId but never writes
// it (see core/apply.go).
func (f *Facade) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rawBurn, err := hex.DecodeString(trim0x(req.RLPBurn))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sig, err := hex.DecodeString(trim0x(req.Sig))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	burn, err := core.DecodeBurnRLP(rawBurn)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sender, err := core.RecoverPersonalSigner(rawBurn, sig)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	burn.Calldata = &sender

	if f.Chain.HasBurnID(burn.BurnID) {
		writeError(w, http.StatusConflict, errBurnAlreadyExists)
		return
	}

	msg, err := burn.EncodeRLP()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	signed, err := f.Signer.SignCustomMsg(f.Chain.Config().ChainID, msg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if err := f.Chain.MarkBurnID(burn.BurnID); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	f.Queue.Push(core.CustomTransaction(signed))
	f.log.WithField("burn_id", burn.BurnID.Hex()).Info("withdraw enqueued")

	hash, err := core.CustomTransaction(signed).Hash()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, withdrawResponse{CustomTxHash: hash.Hex()})
}

func trim0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
