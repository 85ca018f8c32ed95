package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/sebdeveloper6952/minledger/core/blockchain"
	"github.com/sebdeveloper6952/minledger/core/logger"
	"github.com/sebdeveloper6952/minledger/core/rpc"
	"github.com/urfave/cli/v3"
)

var log = logger.NewLogger()

func main() {
	cmd := &cli.Command{
		Name:  "minledger-cli",
		Usage: "query and drive a running minledger node",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "node",
				Value: "http://localhost:8080" + rpc.Path,
				Usage: "RPC endpoint of the node",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "get-block",
				Usage: "get block information",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "hash",
						Value: "",
						Usage: "hash of the block to query",
					},
					&cli.IntFlag{
						Name:  "height",
						Value: -1,
						Usage: "height of the block to query",
					},
					&cli.BoolFlag{
						Name:  "dump",
						Usage: "print the block with go-spew instead of JSON",
					},
				},
				Action: withClient(func(ctx context.Context, cmd *cli.Command, client *rpc.Client) error {
					var (
						block *blockchain.Block
						err   error
					)
					switch {
					case cmd.String("hash") != "":
						block, err = client.GetBlockByHash(ctx, cmd.String("hash"))
					case cmd.Int("height") >= 0:
						block, err = client.GetBlockByHeight(ctx, uint64(cmd.Int("height")))
					default:
						return errors.New("provide either --hash or --height")
					}
					if err != nil {
						return err
					}
					if cmd.Bool("dump") {
						spew.Dump(block)
						return nil
					}
					return printJSON(block)
				}),
			},
			{
				Name:  "last-hash",
				Usage: "print the hash of the newest block",
				Action: withClient(func(ctx context.Context, cmd *cli.Command, client *rpc.Client) error {
					hash, err := client.LastHash(ctx)
					if err != nil {
						return err
					}
					fmt.Println(hash)
					return nil
				}),
			},
			{
				Name:  "height",
				Usage: "print the chain height",
				Action: withClient(func(ctx context.Context, cmd *cli.Command, client *rpc.Client) error {
					height, err := client.Height(ctx)
					if err != nil {
						return err
					}
					fmt.Println(height)
					return nil
				}),
			},
			{
				Name:      "send",
				Usage:     "queue a transaction",
				ArgsUsage: "<sender> <receiver> <amount>",
				Action: withClient(func(ctx context.Context, cmd *cli.Command, client *rpc.Client) error {
					if cmd.Args().Len() != 3 {
						return errors.New("send expects <sender> <receiver> <amount>")
					}
					amount, err := strconv.ParseFloat(cmd.Args().Get(2), 64)
					if err != nil {
						return fmt.Errorf("invalid amount %q: %w", cmd.Args().Get(2), err)
					}
					if err := client.SubmitTransaction(ctx, cmd.Args().Get(0), cmd.Args().Get(1), amount); err != nil {
						return err
					}
					log.Success("Transaction queued")
					return nil
				}),
			},
			{
				Name:  "mine",
				Usage: "seal the pending transactions into a new block",
				Action: withClient(func(ctx context.Context, cmd *cli.Command, client *rpc.Client) error {
					block, err := client.MineBlock(ctx)
					if err != nil {
						return err
					}
					return printJSON(block)
				}),
			},
			{
				Name:      "set-difficulty",
				Usage:     "change the difficulty of the next blocks",
				ArgsUsage: "<difficulty>",
				Action: withClient(func(ctx context.Context, cmd *cli.Command, client *rpc.Client) error {
					d, err := strconv.ParseUint(cmd.Args().First(), 10, 32)
					if err != nil {
						return fmt.Errorf("invalid difficulty %q: %w", cmd.Args().First(), err)
					}
					return client.SetDifficulty(ctx, uint32(d))
				}),
			},
			{
				Name:      "set-reward",
				Usage:     "change the reward paid for the next blocks",
				ArgsUsage: "<reward>",
				Action: withClient(func(ctx context.Context, cmd *cli.Command, client *rpc.Client) error {
					r, err := strconv.ParseFloat(cmd.Args().First(), 64)
					if err != nil {
						return fmt.Errorf("invalid reward %q: %w", cmd.Args().First(), err)
					}
					return client.SetReward(ctx, r)
				}),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Errorf("%v\n", err)
		os.Exit(1)
	}
}

// withClient connects to the node named by --node for the duration of one
// command.
func withClient(action func(ctx context.Context, cmd *cli.Command, client *rpc.Client) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		client, closer, err := rpc.NewClient(ctx, cmd.String("node"))
		if err != nil {
			return fmt.Errorf("error connecting to node: %w", err)
		}
		defer closer()
		return action(ctx, cmd, client)
	}
}

func printJSON(block *blockchain.Block) error {
	jsonBytes, err := json.MarshalIndent(block, "", " ")
	if err != nil {
		return fmt.Errorf("error marshalling received block to json: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}
