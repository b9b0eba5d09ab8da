package deposit

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
		Use:   "deposit",
		Short: "Deposit SOL in exchange for stSOL",
		Run:   run,
	}

	rpcURL        string
	programAddr   string
	solidoAddr    string
	recipientAddr string
	keypairPath   string
	amount        uint64
)

func init() {
	Cmd.Flags().StringVarP(&rpcURL, "url", "u", "http://localhost:8899", "RPC endpoint")
	Cmd.Flags().StringVarP(&programAddr, "program", "p", "", "Program address")
	Cmd.Flags().StringVarP(&solidoAddr, "solido", "l", "", "Instance state account address")
	Cmd.Flags().StringVarP(&recipientAddr, "recipient", "r", "", "stSOL token account receiving the minted tokens")
	Cmd.Flags().StringVarP(&keypairPath, "keypair", "k", "", "Keypair file of the depositing account")
	Cmd.Flags().Uint64VarP(&amount, "amount", "a", 0, "Amount to deposit, in lamports")
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
	recipientKey, err := solana.PublicKeyFromBase58(recipientAddr)
	if err != nil {
		klog.Exitf("invalid recipient address %q: %s", recipientAddr, err)
	}
	user, err := solana.PrivateKeyFromSolanaKeygenFile(keypairPath)
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

	instr, err := solido.NewDepositInstruction(programKey, &solido.DepositAccountsMeta{
		Lido:           solidoKey,
		StakePool:      lido.StakePoolAccount,
		PoolTokenTo:    lido.StakePoolTokenHolder,
		Manager:        lido.Manager,
		User:           user.PublicKey(),
		Recipient:      recipientKey,
		StSolMint:      lido.StSolMint,
		ReserveAccount: reserve,
	}, amount)
	if err != nil {
		klog.Exitf("failed to build deposit instruction: %s", err)
	}

	blockhash, err := client.GetLatestBlockhash(ctx)
	if err != nil {
		klog.Exitf("failed to fetch recent blockhash: %s", err)
	}
	tx, err := solana.NewTransaction(
		[]solana.Instruction{instr.AsSolana()},
		blockhash,
		solana.TransactionPayer(user.PublicKey()),
	)
	if err != nil {
		klog.Exitf("failed to build transaction: %s", err)
	}
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key == user.PublicKey() {
			return &user
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
	klog.Infof("deposited %d lamports: %s", amount, sig)
}
