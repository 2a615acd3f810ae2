package main

import (
	"context"
	"fmt"
	"os"

	"trade-builder/lib/logger"
	"trade-builder/modules/aggregate"
	"trade-builder/modules/config"
	nodeclient "trade-builder/modules/node-client"
)

// env is what every command runs against.
type env struct {
	conf   config.TradeConfig
	wallet *walletPlugin
	node   *nodeclient.Client
	log    logger.Logger
	dryRun bool
}

func main() {
	args, err := ParseArgs()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	cmd, ok := findCommand(args.command)
	if !ok {
		fmt.Println("unknown command", args.command)
		os.Exit(1)
	}
	if len(args.rest) != len(cmd.params) {
		fmt.Printf("usage: %s %s\n", cmd.name, cmd.usage)
		os.Exit(1)
	}

	log := logger.Logger(logger.Nop())
	if args.verbose {
		dev, err := logger.NewDevelopment("trade-cli")
		if err != nil {
			fmt.Println("failed to create logger", err)
			os.Exit(1)
		}
		defer dev.Sync()
		log = dev
	}

	tradeConfig := config.New(config.DefaultTradeConfig(), &args.dataDir)
	w := &walletPlugin{dataDir: args.dataDir, conf: tradeConfig, log: log}

	a := aggregate.New(context.Background(), tradeConfig, w)
	err = a.Run(func(ctx context.Context) error {
		conf := tradeConfig.Get()
		if args.nodeUrl != "" {
			conf.NodeURL = args.nodeUrl
		}
		if err := conf.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", tradeConfig.FilePath(), err)
		}
		node, err := nodeclient.New(conf.NodeURL, log)
		if err != nil {
			return err
		}
		return cmd.run(ctx, env{conf, w, node, log, args.dryRun}, args.rest)
	})
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
