package rpcclient

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

func (fetcher *RpcClient) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	result, err := fetcher.client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, err
	}
	return result.Value.Blockhash, nil
}

// SendTransaction submits a signed transaction with preflight checks
// enabled.
func (fetcher *RpcClient) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	return fetcher.client.SendTransactionWithOpts(
		ctx,
		tx,
		rpc.TransactionOpts{
			PreflightCommitment: rpc.CommitmentFinalized,
		},
	)
}
