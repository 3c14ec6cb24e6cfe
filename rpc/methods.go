package rpc

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/holiman/uint256"

	core "xchain/core"
)

// EthAPI implements the "eth_*" namespace of spec §4.6, projecting engine
// queries onto wallet-facing wire shapes. Grounded on the EthAPI pattern of
// other_examples' mfer-node rpcapi.go: one exported method per RPC name,
// registered with go-ethereum/rpc's reflective dispatcher.
type EthAPI struct {
	chain *core.Blockchain
	queue *core.TransactionQueue
}

// NetAPI implements "net_version", reported separately from "eth_chainId"
// per convention even though both return the same configured chain id here.
type NetAPI struct {
	chain *core.Blockchain
}

func (a *EthAPI) BlockNumber() hexutil.Uint64 {
	return hexutil.Uint64(a.chain.Height())
}

func (a *EthAPI) ChainId() *hexutil.Big {
	return (*hexutil.Big)(new(big.Int).SetUint64(a.chain.Config().ChainID))
}

func (a *NetAPI) Version() string {
	return fmt.Sprintf("%d", a.chain.Config().ChainID)
}

func (a *EthAPI) GetBalance(address common.Address, _ gethrpc.BlockNumberOrHash) (*hexutil.Big, error) {
	bal := a.chain.GetBalance(core.FromCommon(address), core.NativeToken)
	return (*hexutil.Big)(bal.ToBig()), nil
}

func (a *EthAPI) GetTransactionCount(address common.Address, _ gethrpc.BlockNumberOrHash) (hexutil.Uint64, error) {
	nonce := a.chain.GetNonceEth(core.FromCommon(address))
	return hexutil.Uint64(nonce.Uint64()), nil
}

// Call dispatches the read-only ERC-20/ERC-165 surface of spec §4.6: the
// ERC-165 probe, balanceOf/decimals/symbol against the token at `to`, and 0
// for any other selector.
func (a *EthAPI) Call(args CallArgs, _ gethrpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	if args.To == nil {
		return hexutil.Bytes(core.EncodeBalanceOf(uint256.NewInt(0))), nil
	}
	tokenAddr := core.FromCommon(*args.To)
	data := args.input()
	sel, ok := core.EthCallSelector(data)
	if !ok {
		return hexutil.Bytes(core.EncodeBalanceOf(uint256.NewInt(0))), nil
	}

	switch {
	case core.IsERC165(sel):
		return hexutil.Bytes(core.EncodeBool(true)), nil
	case core.IsBalanceOf(sel):
		if len(data) < 4+32 {
			return hexutil.Bytes(core.EncodeBalanceOf(uint256.NewInt(0))), nil
		}
		var holderAddr core.Address
		copy(holderAddr[:], data[16:36])
		tok := a.chain.TokenMetadata(tokenAddr)
		bal := a.chain.GetBalance(holderAddr, tok)
		return hexutil.Bytes(core.EncodeBalanceOf(bal)), nil
	case core.IsDecimals(sel):
		decimals := a.chain.GetTokenDecimal(tokenAddr)
		return hexutil.Bytes(core.EncodeBalanceOf(decimals)), nil
	case core.IsSymbol(sel):
		return hexutil.Bytes(core.EncodeString(a.chain.GetTokenSymbol(tokenAddr))), nil
	default:
		return hexutil.Bytes(core.EncodeBalanceOf(uint256.NewInt(0))), nil
	}
}

// SendRawTransaction decodes raw as an EIP-1559 envelope and enqueues it;
// legacy/EIP-2930 envelopes fail with "Only EIP-1559 is supported" (spec
// §3) via core.DecodeEthTx.
func (a *EthAPI) SendRawTransaction(raw hexutil.Bytes) (common.Hash, error) {
	tx, err := core.DecodeEthTx(raw)
	if err != nil {
		return common.Hash{}, err
	}
	owshenTx := core.EthTransaction(tx)
	a.queue.Push(owshenTx)
	h, err := owshenTx.Hash()
	if err != nil {
		return common.Hash{}, err
	}
	return h.Common(), nil
}

func (a *EthAPI) GetBlockByNumber(number gethrpc.BlockNumber, fullTx bool) (map[string]interface{}, error) {
	idx, err := a.resolveBlockNumber(number)
	if err != nil {
		return nil, err
	}
	blk, err := a.chain.GetBlock(idx)
	if err != nil {
		return nil, err
	}
	hash, err := blk.Hash()
	if err != nil {
		return nil, err
	}

	txs := make([]interface{}, 0, len(blk.Txs))
	for i, tx := range blk.Txs {
		if !fullTx {
			h, err := tx.Hash()
			if err != nil {
				return nil, err
			}
			txs = append(txs, h.Common())
			continue
		}
		txs = append(txs, projectTransaction(core.IncludedTransaction{
			Tx: tx, BlockHash: hash, BlockNumber: idx, TransactionIndex: uint64(i),
		}))
	}

	var parentHash common.Hash
	if blk.PrevHash != nil {
		parentHash = blk.PrevHash.Common()
	}
	return map[string]interface{}{
		"number":       hexutil.Uint64(idx),
		"hash":         hash.Hex(),
		"parentHash":   parentHash.Hex(),
		"timestamp":    hexutil.Uint64(blk.Timestamp),
		"transactions": txs,
	}, nil
}

func (a *EthAPI) resolveBlockNumber(number gethrpc.BlockNumber) (uint64, error) {
	height := a.chain.Height()
	switch number {
	case gethrpc.LatestBlockNumber, gethrpc.PendingBlockNumber:
		if height == 0 {
			return 0, core.ErrBadBlockIndex
		}
		return height - 1, nil
	case gethrpc.EarliestBlockNumber:
		return 0, nil
	default:
		return uint64(number.Int64()), nil
	}
}

func (a *EthAPI) GetTransactionByHash(hash common.Hash) (map[string]interface{}, error) {
	it, ok := a.chain.GetTransactionByHash(core.Hash(hash))
	if !ok {
		return nil, nil
	}
	return projectTransaction(it), nil
}

func (a *EthAPI) GetTransactionReceipt(hash common.Hash) (map[string]interface{}, error) {
	it, ok := a.chain.GetTransactionByHash(core.Hash(hash))
	if !ok {
		return nil, nil
	}
	receipt := projectTransaction(it)
	receipt["status"] = hexutil.Uint64(1)
	receipt["cumulativeGasUsed"] = hexutil.Uint64(0)
	receipt["gasUsed"] = hexutil.Uint64(0)
	receipt["logs"] = []interface{}{}
	receipt["logsBloom"] = hexutil.Bytes(make([]byte, 256))
	return receipt, nil
}

// EstimateGas returns a deterministic placeholder (spec §4.6): there is no
// fee market, so this exists only to satisfy wallets that call it before
// eth_sendRawTransaction.
func (a *EthAPI) EstimateGas(args CallArgs, _ *gethrpc.BlockNumberOrHash) (hexutil.Uint64, error) {
	return hexutil.Uint64(68 * len(args.input())), nil
}

func (a *EthAPI) GasPrice() (*hexutil.Big, error) {
	return (*hexutil.Big)(new(big.Int)), nil
}

func (a *EthAPI) FeeHistory(blockCount hexutil.Uint, newestBlock gethrpc.BlockNumber, rewardPercentiles []float64) (map[string]interface{}, error) {
	n := int(blockCount)
	if n < 1 {
		n = 1
	}
	zeroes := make([]*hexutil.Big, n+1)
	for i := range zeroes {
		zeroes[i] = (*hexutil.Big)(new(big.Int))
	}
	rewards := make([][]*hexutil.Big, n)
	for i := range rewards {
		rewards[i] = make([]*hexutil.Big, len(rewardPercentiles))
		for j := range rewards[i] {
			rewards[i][j] = (*hexutil.Big)(new(big.Int))
		}
	}
	return map[string]interface{}{
		"oldestBlock":   hexutil.Uint64(0),
		"baseFeePerGas": zeroes,
		"gasUsedRatio":  make([]float64, n),
		"reward":        rewards,
	}, nil
}
