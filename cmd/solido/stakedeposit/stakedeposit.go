package stakedeposit

import (
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/solido-labs/solido-go/pkg/rpcclient"
	"github.com/solido-labs/solido-go/pkg/solido"
	"github.com/solido-labs/solido-go/pkg/vm"
)

var (
	Cmd = cobra.Command{
		Use:   "stake-deposit",
		Short: "Move SOL from the reserve into a stake account delegated to a validator",
		Run:   run,
	}

	rpcURL        string
	programAddr   string
	solidoAddr    string
	validatorAddr string
	keypairPath   string
	amount        uint64
)

func init() {
	Cmd.Flags().StringVarP(&rpcURL, "url", "u", "http://localhost:8899", "RPC endpoint")
	Cmd.Flags().StringVarP(&programAddr, "program", "p", "", "Program address")
	Cmd.Flags().StringVarP(&solidoAddr, "solido", "l", "", "Instance state account address")
	Cmd.Flags().StringVarP(&validatorAddr, "validator", "v", "", "Vote account of the validator to delegate to")
	Cmd.Flags().StringVarP(&keypairPath, "keypair", "k", "", "Keypair file paying the transaction fee")
	Cmd.Flags().Uint64VarP(&amount, "amount", "a", 0, "Amount to stake, in lamports")
}

func run(c *cobra.Command, args []string) {
	programKey, err := solana.PublicKeyFromBase58(programAddr)
	if err != nil {
		klog.Exitf("invalid program address %q: %s", programAddr, err)
	}
	solidoKey, err := solana.PublicKeyFromBase58(solidoAddr)
	if err != nil {
		klog.Exitf("invalid instance address %q: %s", solidoAddr, err)
	}
	validatorKey, err := solana.PublicKeyFromBase58(validatorAddr)
	if err != nil {
		klog.Exitf("invalid validator vote address %q: %s", validatorAddr, err)
	}
	payer, err := solana.PrivateKeyFromSolanaKeygenFile(keypairPath)
	if err != nil {
		klog.Exitf("failed to load keypair from %s: %s", keypairPath, err)
	}

	ctx := c.Context()
	client := rpcclient.NewRpcClient(rpcURL)

	data, err := client.GetAccountData(ctx, solidoKey)
	if err != nil {
		klog.Exitf("failed to fetch instance account %s: %s", solidoKey, err)
	}
	lido, err := solido.LidoFromAccountInfo(&vm.AccountInfo{Key: solidoKey, Data: data})
	if err != nil {
		klog.Exitf("failed to decode instance state: %s", err)
	}
	reserve, err := solido.AuthorityAddress(solidoKey, solido.ReserveAuthoritySeed, lido.SolReserveAuthorityBumpSeed, programKey)
	if err != nil {
		klog.Exitf("failed to derive reserve authority: %s", err)
	}
	depositAuthority, err := solido.AuthorityAddress(solidoKey, solido.DepositAuthoritySeed, lido.DepositAuthorityBumpSeed, programKey)
	if err != nil {
		klog.Exitf("failed to derive deposit authority: %s", err)
	}
	stakeAddr, _, err := solido.FindValidatorStakeAddress(validatorKey, programKey)
	if err != nil {
		klog.Exitf("failed to derive validator stake address: %s", err)
	}
	klog.Infof("staking into derived stake account %s", stakeAddr)

	instr, err := solido.NewStakeDepositInstruction(programKey, &solido.StakeDepositAccountsMeta{
		Lido:             solidoKey,
		Validator:        validatorKey,
		Reserve:          reserve,
		Stake:            stakeAddr,
		DepositAuthority: depositAuthority,
	}, amount)
	if err != nil {
		klog.Exitf("failed to build stake deposit instruction: %s", err)
	}

	blockhash, err := client.GetLatestBlockhash(ctx)
	if err != nil {
		klog.Exitf("failed to fetch recent blockhash: %s", err)
	}
	tx, err := solana.NewTransaction(
		[]solana.Instruction{instr.AsSolana()},
		blockhash,
		solana.TransactionPayer(payer.PublicKey()),
	)
	if err != nil {
		klog.Exitf("failed to build transaction: %s", err)
	}
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key == payer.PublicKey() {
			return &payer
		}
		return nil
	})
	if err != nil {
		klog.Exitf("failed to sign transaction: %s", err)
	}

	sig, err := client.SendTransaction(ctx, tx)
	if err != nil {
		klog.Exitf("failed to send transaction: %s", err)
	}
	klog.Infof("stake deposit of %d lamports sent: %s", amount, sig)
}
