package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sebdeveloper6952/minledger/core"
	blkchn "github.com/sebdeveloper6952/minledger/core/blockchain"
	"github.com/sebdeveloper6952/minledger/core/config"
	"github.com/sebdeveloper6952/minledger/core/logger"
	"github.com/sebdeveloper6952/minledger/tui"
	"github.com/urfave/cli/v3"
)

var log = logger.NewLogger()

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listenForQuitSignal(ctx, cancel)

	cmd := &cli.Command{
		Name:  "minledger",
		Usage: "run a single-node proof-of-work ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: config.DefaultConfigPath(),
				Usage: "path of the YAML config file",
			},
			&cli.StringFlag{
				Name:  "miner",
				Usage: "address credited with block rewards (a new wallet is generated if empty)",
			},
			&cli.IntFlag{
				Name:  "difficulty",
				Usage: "number of leading zero characters a block hash must have",
			},
			&cli.StringFlag{
				Name:  "reward",
				Usage: "reward paid to the miner for each block",
			},
			&cli.IntFlag{
				Name:  "max-attempts",
				Usage: "give up sealing a block after this many nonces (0 means no limit)",
			},
			&cli.StringFlag{
				Name:  "hex",
				Usage: "digest rendering, padded or compact",
			},
			&cli.StringFlag{
				Name:  "rpc",
				Usage: "address the RPC and metrics server listens on",
			},
			&cli.BoolFlag{
				Name:  "validate-addresses",
				Usage: "only accept transactions between base58check wallet addresses",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "run the interactive menu instead of the RPC server",
			},
			&cli.BoolFlag{
				Name:  "dump",
				Usage: "print every sealed block to stdout",
			},
		},
		Action: run,
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Errorf("%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.Blockchain.MinerAddress == "" {
		minerWallet, err := blkchn.NewWallet()
		if err != nil {
			return fmt.Errorf("error creating wallet for miner: %w", err)
		}
		cfg.Blockchain.MinerAddress = minerWallet.Address
		log.Infof("Generated miner address %s\n", minerWallet.Address)
	}

	opts, err := ledgerOptions(cfg, cmd.Bool("dump"))
	if err != nil {
		return err
	}

	if cmd.Bool("tui") {
		// the menu owns the terminal
		logger.SetOutput(io.Discard)
	}

	ledger, err := blkchn.NewLedger(ctx, cfg.Blockchain.MinerAddress, cfg.Blockchain.Difficulty, opts...)
	if err != nil {
		return fmt.Errorf("error creating ledger: %w", err)
	}

	if cmd.Bool("tui") {
		return tui.Run(ctx, ledger)
	}

	node, err := core.NewNode(ledger, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	return node.Run(ctx, cfg.RPC.Address)
}

// loadConfig reads the config file and applies any flags given on the
// command line over it.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("miner") {
		cfg.Blockchain.MinerAddress = cmd.String("miner")
	}
	if cmd.IsSet("difficulty") {
		d := cmd.Int("difficulty")
		if d < 1 || d > blkchn.MaxDifficulty {
			return nil, fmt.Errorf("difficulty %d: %w", d, blkchn.ErrInvalidDifficulty)
		}
		cfg.Blockchain.Difficulty = uint32(d)
	}
	if cmd.IsSet("reward") {
		r, err := strconv.ParseFloat(cmd.String("reward"), 64)
		if err != nil {
			return nil, fmt.Errorf("reward %q: %w", cmd.String("reward"), blkchn.ErrInvalidReward)
		}
		cfg.Blockchain.Reward = r
	}
	if cmd.IsSet("max-attempts") {
		n := cmd.Int("max-attempts")
		if n < 0 {
			return nil, fmt.Errorf("max-attempts cannot be negative: %d", n)
		}
		cfg.Blockchain.MaxAttempts = uint64(n)
	}
	if cmd.IsSet("hex") {
		cfg.Blockchain.HexEncoding = cmd.String("hex")
	}
	if cmd.IsSet("rpc") {
		cfg.RPC.Address = cmd.String("rpc")
	}
	if cmd.IsSet("validate-addresses") {
		cfg.Blockchain.ValidateAddresses = cmd.Bool("validate-addresses")
	}

	return cfg, cfg.Validate()
}

func ledgerOptions(cfg *config.Config, dump bool) ([]blkchn.Option, error) {
	enc, err := blkchn.ParseHexEncoding(cfg.Blockchain.HexEncoding)
	if err != nil {
		return nil, err
	}

	opts := []blkchn.Option{
		blkchn.WithHexEncoding(enc),
		blkchn.WithReward(cfg.Blockchain.Reward),
		blkchn.WithMaxAttempts(cfg.Blockchain.MaxAttempts),
	}
	if cfg.Blockchain.ValidateAddresses {
		opts = append(opts, blkchn.WithValidator(blkchn.AddressValidator))
	}
	if dump {
		opts = append(opts, blkchn.WithBlockDump(os.Stdout))
	}
	return opts, nil
}

func listenForQuitSignal(ctx context.Context, cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			log.Infof("Received signal: %s, shutting down...\n", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
}
