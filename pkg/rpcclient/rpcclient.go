// Package rpcclient wraps the solana-go RPC client with the handful of
// calls the operator CLI needs: account reads, rent minimums, blockhash
// and transaction submission.
package rpcclient

import (
	"github.com/gagliardetto/solana-go/rpc"
)

type RpcClient struct {
	client *rpc.Client
}

func NewRpcClient(endpoint string) *RpcClient {
	client := rpc.New(endpoint)
	return &RpcClient{client: client}
}
