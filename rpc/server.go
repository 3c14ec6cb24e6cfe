package rpc

import (
	gethrpc "github.com/ethereum/go-ethereum/rpc"

	core "xchain/core"
)

// NewServer registers the eth/net namespaces onto a go-ethereum JSON-RPC
// server. The returned *gethrpc.Server implements http.Handler directly
// (the same ServeHTTP geth's own node/rpc/http.go calls), so callers mount
// it on whatever path their HTTP server chooses.
func NewServer(chain *core.Blockchain, queue *core.TransactionQueue) (*gethrpc.Server, error) {
	srv := gethrpc.NewServer()
	if err := srv.RegisterName("eth", &EthAPI{chain: chain, queue: queue}); err != nil {
		return nil, err
	}
	if err := srv.RegisterName("net", &NetAPI{chain: chain}); err != nil {
		return nil, err
	}
	return srv, nil
}
