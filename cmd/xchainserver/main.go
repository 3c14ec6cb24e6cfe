// Command xchainserver boots the single-operator L2 node: it loads
// configuration and genesis, opens the configured KvStore backend, starts
// the block producer loop, and serves the JSON-RPC and deposit/withdraw
// HTTP surfaces. Grounded on cmd/xchainserver/main.go's boot-and-serve
// shape, generalized from a bare bridge-registry server to the full node.
package main

import (
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"xchain/bridge"
	core "xchain/core"
	"xchain/pkg/config"
	xchainrpc "xchain/rpc"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	configureLogging(cfg)

	var genesis *core.Genesis
	if cfg.Network.GenesisFile != "" {
		genesis, err = core.LoadGenesis(cfg.Network.GenesisFile)
		if err != nil {
			logrus.WithError(err).Fatal("load genesis")
		}
	}

	store, err := openStore(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("open store")
	}
	if closer, ok := store.(*core.LevelDBStore); ok {
		defer closer.Close()
	}

	var owshen core.Address
	if cfg.Owner.Owshen != "" {
		owshen, err = core.ParseAddress(cfg.Owner.Owshen)
		if err != nil {
			logrus.WithError(err).Fatal("parse owshen address")
		}
	}

	var signer *core.OperatorSigner
	chainConfig := core.ChainConfig{ChainID: cfg.Network.ChainID, Owshen: owshen}
	if cfg.Owner.KeyHex != "" {
		signer, err = core.OperatorSignerFromHex(cfg.Owner.KeyHex)
		if err != nil {
			logrus.WithError(err).Fatal("load operator key")
		}
		ownerAddr := signer.Address()
		chainConfig.Owner = &ownerAddr
	}

	chain, err := core.NewBlockchain(store, chainConfig, genesis)
	if err != nil {
		logrus.WithError(err).Fatal("init blockchain")
	}
	queue := core.NewTransactionQueue()

	producer := core.NewProducer(chain, queue, signer)
	go producer.Run()

	if cfg.Network.RPCEnabled {
		srv, err := xchainrpc.NewServer(chain, queue)
		if err != nil {
			logrus.WithError(err).Fatal("init rpc server")
		}
		go func() {
			addr := cfg.Network.RPCAddr
			if addr == "" {
				addr = ":8545"
			}
			logrus.WithField("addr", addr).Info("rpc server listening")
			if err := http.ListenAndServe(addr, srv); err != nil {
				logrus.WithError(err).Fatal("rpc server stopped")
			}
		}()
	}

	facade := bridge.New(chain, queue, signer, cfg.Owner.UpstreamRPC, owshen)
	bridgeAddr := cfg.Network.BridgeAddr
	if bridgeAddr == "" {
		bridgeAddr = ":8082"
	}
	logrus.WithField("addr", bridgeAddr).Info("bridge server listening")
	if err := http.ListenAndServe(bridgeAddr, facade.Router()); err != nil {
		logrus.WithError(err).Fatal("bridge server stopped")
	}
}

func openStore(cfg *config.Config) (core.KvStore, error) {
	if cfg.Storage.Backend == "disk" {
		return core.OpenLevelDBStore(cfg.Storage.DBPath)
	}
	return core.NewMemStore(), nil
}

func configureLogging(cfg *config.Config) {
	if lvl, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logrus.SetLevel(lvl)
	}
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			logrus.SetOutput(f)
		}
	}
}
