package rpc

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/filecoin-project/go-jsonrpc"
	"github.com/sebdeveloper6952/minledger/core/blockchain"
	"github.com/sebdeveloper6952/minledger/core/logger"
)

const (
	Namespace = "NodeRPC"
	Path      = "/rpc/v0"
)

var log = logger.NewLogger()

type RPCHandler struct {
	rpcServer server
}

func NewRPCHandler(s server) *RPCHandler {
	return &RPCHandler{
		rpcServer: s,
	}
}

func (h RPCHandler) GetBlockByHash(hash string) (*blockchain.Block, error) {
	return h.rpcServer.GetBlockByHash(hash)
}

func (h RPCHandler) GetBlockByHeight(height uint64) (*blockchain.Block, error) {
	return h.rpcServer.GetBlockByHeight(height)
}

func (h RPCHandler) LastHash() (string, error) {
	return h.rpcServer.LastHash(), nil
}

func (h RPCHandler) Height() (uint64, error) {
	return h.rpcServer.Height(), nil
}

func (h RPCHandler) SubmitTransaction(sender, receiver string, amount float64) error {
	return h.rpcServer.SubmitTransaction(sender, receiver, amount)
}

func (h RPCHandler) MineBlock(ctx context.Context) (*blockchain.Block, error) {
	return h.rpcServer.MineBlock(ctx)
}

func (h RPCHandler) SetDifficulty(difficulty uint32) error {
	return h.rpcServer.SetDifficulty(difficulty)
}

func (h RPCHandler) SetReward(reward float64) error {
	return h.rpcServer.SetReward(reward)
}

// NewServeMux mounts the JSON-RPC handler on Path and, when given, metrics on /metrics.
func NewServeMux(handler *RPCHandler, metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	rpcServer := jsonrpc.NewServer()
	rpcServer.Register(Namespace, handler)
	mux.Handle(Path, rpcServer)
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}
	return mux
}

// StartRPC serves mux on addr until ctx is done.
func StartRPC(ctx context.Context, addr string, mux http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("RPC listening on %s%s\n", addr, Path)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
