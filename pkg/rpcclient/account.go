package rpcclient

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// GetAccountData fetches the raw contents of an account at finalized
// commitment.
func (fetcher *RpcClient) GetAccountData(ctx context.Context, addr solana.PublicKey) ([]byte, error) {
	result, err := fetcher.client.GetAccountInfoWithOpts(
		ctx,
		addr,
		&rpc.GetAccountInfoOpts{
			Encoding:   solana.EncodingBase64,
			Commitment: rpc.CommitmentFinalized,
		},
	)
	if err != nil {
		return nil, err
	}
	return result.Value.Data.GetBinary(), nil
}

func (fetcher *RpcClient) GetBalance(ctx context.Context, addr solana.PublicKey) (uint64, error) {
	result, err := fetcher.client.GetBalance(ctx, addr, rpc.CommitmentFinalized)
	if err != nil {
		return 0, err
	}
	return result.Value, nil
}

func (fetcher *RpcClient) GetMinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error) {
	return fetcher.client.GetMinimumBalanceForRentExemption(ctx, dataLen, rpc.CommitmentFinalized)
}
