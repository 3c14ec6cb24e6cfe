// Package rpc projects the Blockchain engine's state onto the JSON-RPC 2.0
// method surface Ethereum wallets expect (spec §4.6), built on
// github.com/ethereum/go-ethereum/rpc — the same request/response framing
// and method-name-to-struct-method dispatch geth itself uses, so every
// "namespace_method" name here maps directly onto an exported Go method.
package rpc

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// CallArgs mirrors the {to, data[, from]} object eth_call/eth_estimateGas
// accept. Other wallet-supplied fields (gas, gasPrice, value) are accepted
// and ignored — this engine has no fee market to apply them against.
type CallArgs struct {
	From *common.Address `json:"from"`
	To   *common.Address `json:"to"`
	Data *hexutil.Bytes  `json:"data"`
}

func (a CallArgs) input() []byte {
	if a.Data == nil {
		return nil
	}
	return *a.Data
}
