package main

import (
	"path/filepath"

	"trade-builder/lib/logger"
	"trade-builder/lib/utils"
	"trade-builder/modules/aggregate"
	"trade-builder/modules/config"
	"trade-builder/modules/wallet"

	"github.com/chebyrash/promise"
)

// walletPlugin opens the configured on-disk wallet for the lifetime of a
// command. A relative wallet dir is resolved against the data dir.
type walletPlugin struct {
	dataDir string
	conf    *config.Config[config.TradeConfig]
	log     logger.Logger

	*wallet.Wallet
}

var _ aggregate.Plugin = &walletPlugin{}

func (w *walletPlugin) Init() error {
	dir := w.conf.Get().WalletDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(w.dataDir, dir)
	}
	opened, err := wallet.Open(dir, w.log)
	if err != nil {
		return err
	}
	w.Wallet = opened
	return nil
}

func (w *walletPlugin) Start() *promise.Promise[any] {
	return utils.PromiseResolve[any](nil)
}

func (w *walletPlugin) Stop() error {
	if w.Wallet == nil {
		return nil
	}
	return w.Wallet.Close()
}
