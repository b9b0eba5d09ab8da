package createsolido

import (
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/solido-labs/solido-go/pkg/rpcclient"
	"github.com/solido-labs/solido-go/pkg/solido"
)

var (
	Cmd = cobra.Command{
		Use:   "create-solido",
		Short: "Create and initialize a new instance",
		Long: "Allocate a fresh state account sized for the given limits, fund\n" +
			"the derived reserve to its rent floor, and submit Initialize.\n" +
			"The stake pool, stSOL mint and fee token accounts must already be\n" +
			"arranged under the derived authorities; the derive subcommand\n" +
			"prints the addresses to arrange them under.",
		Run: run,
	}

	rpcURL         string
	programAddr    string
	keypairPath    string
	stakePoolAddr  string
	stSolMintAddr  string
	poolTokenAddr  string
	feeTokenAddr   string
	insuranceAddr  string
	treasuryAddr   string
	managerFeeAddr string
	maxValidators  uint32
	maxMaintainers uint32
	insuranceFee   uint32
	treasuryFee    uint32
	validationFee  uint32
	managerFee     uint32
)

func init() {
	Cmd.Flags().StringVarP(&rpcURL, "url", "u", "http://localhost:8899", "RPC endpoint")
	Cmd.Flags().StringVarP(&programAddr, "program", "p", "", "Program address")
	Cmd.Flags().StringVarP(&keypairPath, "keypair", "k", "", "Keypair file of the manager, pays for the accounts")
	Cmd.Flags().StringVar(&stakePoolAddr, "stake-pool", "", "Pre-arranged stake pool account")
	Cmd.Flags().StringVar(&stSolMintAddr, "st-sol-mint", "", "stSOL mint with the reserve authority as mint authority")
	Cmd.Flags().StringVar(&poolTokenAddr, "pool-token-to", "", "Pool token account owned by the stake pool authority")
	Cmd.Flags().StringVar(&feeTokenAddr, "fee-token", "", "Pool token account the stake pool pays fees to")
	Cmd.Flags().StringVar(&insuranceAddr, "insurance", "", "stSOL account receiving the insurance fee")
	Cmd.Flags().StringVar(&treasuryAddr, "treasury", "", "stSOL account receiving the treasury fee")
	Cmd.Flags().StringVar(&managerFeeAddr, "manager-fee", "", "stSOL account receiving the manager fee")
	Cmd.Flags().Uint32Var(&maxValidators, "max-validators", 0, "Validator list capacity")
	Cmd.Flags().Uint32Var(&maxMaintainers, "max-maintainers", 0, "Maintainer list capacity")
	Cmd.Flags().Uint32Var(&insuranceFee, "insurance-fee", 0, "Insurance fee numerator")
	Cmd.Flags().Uint32Var(&treasuryFee, "treasury-fee", 0, "Treasury fee numerator")
	Cmd.Flags().Uint32Var(&validationFee, "validation-fee", 0, "Validation fee numerator")
	Cmd.Flags().Uint32Var(&managerFee, "manager-fee-share", 0, "Manager fee numerator")
}

func mustKey(name, value string) solana.PublicKey {
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		klog.Exitf("invalid %s address %q: %s", name, value, err)
	}
	return key
}

func run(c *cobra.Command, args []string) {
	programKey := mustKey("program", programAddr)
	manager, err := solana.PrivateKeyFromSolanaKeygenFile(keypairPath)
	if err != nil {
		klog.Exitf("failed to load keypair from %s: %s", keypairPath, err)
	}
	lidoKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		klog.Exitf("failed to generate instance keypair: %s", err)
	}

	ctx := c.Context()
	client := rpcclient.NewRpcClient(rpcURL)

	size := solido.RequiredBytes(maxValidators, maxMaintainers)
	lidoRent, err := client.GetMinimumBalanceForRentExemption(ctx, size)
	if err != nil {
		klog.Exitf("failed to fetch rent minimum for %d bytes: %s", size, err)
	}
	reserveRent, err := client.GetMinimumBalanceForRentExemption(ctx, 0)
	if err != nil {
		klog.Exitf("failed to fetch rent minimum for the reserve: %s", err)
	}
	reserve, err := solido.FindAuthority(lidoKey.PublicKey(), solido.ReserveAuthoritySeed, programKey)
	if err != nil {
		klog.Exitf("failed to derive reserve authority: %s", err)
	}

	createAccount := solido.NewSystemCreateAccountInstruction(
		manager.PublicKey(),
		lidoKey.PublicKey(),
		lidoRent,
		size,
		programKey,
	)
	fundReserve := solido.NewSystemTransferInstruction(manager.PublicKey(), reserve.Address, reserveRent)
	initialize, err := solido.NewInitializeInstruction(
		programKey,
		&solido.InitializeAccountsMeta{
			Lido:              lidoKey.PublicKey(),
			Manager:           manager.PublicKey(),
			StSolMint:         mustKey("stSOL mint", stSolMintAddr),
			StakePool:         mustKey("stake pool", stakePoolAddr),
			PoolTokenTo:       mustKey("pool token", poolTokenAddr),
			FeeToken:          mustKey("fee token", feeTokenAddr),
			InsuranceAccount:  mustKey("insurance", insuranceAddr),
			TreasuryAccount:   mustKey("treasury", treasuryAddr),
			ManagerFeeAccount: mustKey("manager fee", managerFeeAddr),
			ReserveAccount:    reserve.Address,
		},
		solido.FeeDistribution{
			InsuranceFee:  insuranceFee,
			TreasuryFee:   treasuryFee,
			ValidationFee: validationFee,
			ManagerFee:    managerFee,
		},
		maxValidators,
		maxMaintainers,
	)
	if err != nil {
		klog.Exitf("failed to build initialize instruction: %s", err)
	}

	blockhash, err := client.GetLatestBlockhash(ctx)
	if err != nil {
		klog.Exitf("failed to fetch recent blockhash: %s", err)
	}
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			createAccount.AsSolana(),
			fundReserve.AsSolana(),
			initialize.AsSolana(),
		},
		blockhash,
		solana.TransactionPayer(manager.PublicKey()),
	)
	if err != nil {
		klog.Exitf("failed to build transaction: %s", err)
	}
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		switch key {
		case manager.PublicKey():
			return &manager
		case lidoKey.PublicKey():
			return &lidoKey
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
	klog.Infof("created instance %s: %s", lidoKey.PublicKey(), sig)
}
