package rpc

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	core "xchain/core"
)

// projectTransaction renders an IncludedTransaction into the wallet-facing
// JSON shape spec §6 names verbatim for eth_getTransactionByHash:
// {from,to,hash,nonce,value,gas,gasPrice,maxFeePerGas,maxPriorityFeePerGas,
// chainId,input,blockHash,blockNumber,transactionIndex,type,v,r,s,yParity,
// accessList}. Custom (Mint/Burn) transactions are projected onto the same
// shape as best-effort: "to" is the zero address, "input" carries the raw
// signed msg_rlp, and the ERC-1559 fee fields are zero since this chain has
// no fee market (spec §4.3 Non-goals).
func projectTransaction(it core.IncludedTransaction) map[string]interface{} {
	hash, _ := it.Tx.Hash()
	from, _ := it.Tx.Signer()
	chainID, _ := it.Tx.ChainID()

	out := map[string]interface{}{
		"hash":             hash.Hex(),
		"from":             from.Hex(),
		"blockHash":        it.BlockHash.Hex(),
		"blockNumber":      hexutil.Uint64(it.BlockNumber),
		"transactionIndex": hexutil.Uint64(it.TransactionIndex),
		"chainId":          (*hexutil.Big)(new(big.Int).SetUint64(chainID)),
		"type":             "0x2",
		"accessList":       []interface{}{},
	}

	if it.Tx.Eth != nil {
		tx := it.Tx.Eth
		v, r, s := tx.RawSignatureValues()
		to := common.Address{}
		if tx.To() != nil {
			to = *tx.To()
		}
		out["to"] = to.Hex()
		out["nonce"] = hexutil.Uint64(tx.Nonce())
		out["value"] = (*hexutil.Big)(tx.Value())
		out["gas"] = hexutil.Uint64(tx.Gas())
		out["gasPrice"] = (*hexutil.Big)(tx.GasPrice())
		out["maxFeePerGas"] = (*hexutil.Big)(tx.GasFeeCap())
		out["maxPriorityFeePerGas"] = (*hexutil.Big)(tx.GasTipCap())
		out["input"] = hexutil.Bytes(tx.Data())
		out["v"] = (*hexutil.Big)(v)
		out["r"] = (*hexutil.Big)(r)
		out["s"] = (*hexutil.Big)(s)
		yParity := hexutil.Uint64(0)
		if v.Bit(0) == 1 {
			yParity = 1
		}
		out["yParity"] = yParity
		return out
	}

	custom := it.Tx.Custom
	out["to"] = core.ZeroAddress.Hex()
	out["nonce"] = hexutil.Uint64(0)
	out["value"] = (*hexutil.Big)(new(big.Int))
	out["gas"] = hexutil.Uint64(0)
	out["gasPrice"] = (*hexutil.Big)(new(big.Int))
	out["maxFeePerGas"] = (*hexutil.Big)(new(big.Int))
	out["maxPriorityFeePerGas"] = (*hexutil.Big)(new(big.Int))
	out["input"] = hexutil.Bytes(custom.Msg)
	sigLen := len(custom.Sig)
	if sigLen == 65 {
		out["r"] = (*hexutil.Big)(new(big.Int).SetBytes(custom.Sig[:32]))
		out["s"] = (*hexutil.Big)(new(big.Int).SetBytes(custom.Sig[32:64]))
		out["v"] = (*hexutil.Big)(new(big.Int).SetUint64(uint64(custom.Sig[64])))
		out["yParity"] = hexutil.Uint64(custom.Sig[64] & 1)
	}
	return out
}
