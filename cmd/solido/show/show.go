package show

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/solido-labs/solido-go/pkg/rpcclient"
	"github.com/solido-labs/solido-go/pkg/solido"
	"github.com/solido-labs/solido-go/pkg/vm"
)

var (
	Cmd = cobra.Command{
		Use:   "show-solido",
		Short: "Show the state of an instance",
		Run:   run,
	}

	rpcURL      string
	programAddr string
	solidoAddr  string
)

func init() {
	Cmd.Flags().StringVarP(&rpcURL, "url", "u", "http://localhost:8899", "RPC endpoint")
	Cmd.Flags().StringVarP(&programAddr, "program", "p", "", "Program address")
	Cmd.Flags().StringVarP(&solidoAddr, "solido", "l", "", "Instance state account address")
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

	client := rpcclient.NewRpcClient(rpcURL)
	data, err := client.GetAccountData(c.Context(), solidoKey)
	if err != nil {
		klog.Exitf("failed to fetch instance account %s: %s", solidoKey, err)
	}

	lido, err := solido.LidoFromAccountInfo(&vm.AccountInfo{Key: solidoKey, Data: data})
	if err != nil {
		klog.Exitf("failed to decode instance state: %s", err)
	}
	if !lido.IsInitialized() {
		klog.Exitf("account %s holds no initialized instance", solidoKey)
	}

	fmt.Printf("manager:            %s\n", lido.Manager)
	fmt.Printf("stSOL mint:         %s\n", lido.StSolMint)
	fmt.Printf("stake pool:         %s\n", lido.StakePoolAccount)
	fmt.Printf("pool token holder:  %s\n", lido.StakePoolTokenHolder)
	fmt.Printf("token program:      %s\n", lido.TokenProgramID)
	fmt.Printf("stSOL shares:       %d\n", lido.StSolTotalShares)

	fd := lido.FeeDistribution
	fmt.Printf("fees:               insurance %d / treasury %d / validation %d / manager %d (of %d)\n",
		fd.InsuranceFee, fd.TreasuryFee, fd.ValidationFee, fd.ManagerFee, fd.Sum())
	fmt.Printf("insurance account:  %s\n", lido.FeeRecipients.InsuranceAccount)
	fmt.Printf("treasury account:   %s\n", lido.FeeRecipients.TreasuryAccount)
	fmt.Printf("manager account:    %s\n", lido.FeeRecipients.ManagerAccount)

	for _, role := range []struct {
		name string
		seed []byte
		bump byte
	}{
		{"reserve authority", solido.ReserveAuthoritySeed, lido.SolReserveAuthorityBumpSeed},
		{"deposit authority", solido.DepositAuthoritySeed, lido.DepositAuthorityBumpSeed},
		{"fee manager authority", solido.FeeManagerAuthoritySeed, lido.FeeManagerBumpSeed},
		{"stake pool authority", solido.StakePoolAuthoritySeed, lido.StakePoolAuthorityBumpSeed},
	} {
		addr, err := solido.AuthorityAddress(solidoKey, role.seed, role.bump, programKey)
		if err != nil {
			klog.Exitf("stored bump for the %s does not derive an address: %s", role.name, err)
		}
		fmt.Printf("%-21s %s (bump %d)\n", role.name+":", addr, role.bump)
	}

	vca := lido.FeeRecipients.ValidatorCreditAccounts
	fmt.Printf("validators:         %d of at most %d\n", len(vca.Entries), vca.MaxValidators)
	for _, entry := range vca.Entries {
		fmt.Printf("  %s  %d credits\n", entry.Address, entry.Amount)
	}
	fmt.Printf("maintainers:        %d of at most %d\n", len(lido.Maintainers.Entries), lido.Maintainers.MaxMaintainers)
	for _, maintainer := range lido.Maintainers.Entries {
		fmt.Printf("  %s\n", maintainer)
	}
}
