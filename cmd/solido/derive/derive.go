package derive

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/solido-labs/solido-go/pkg/solido"
)

var (
	Cmd = cobra.Command{
		Use:   "derive",
		Short: "Derive the program addresses of an instance",
		Long: "Derive the reserve, deposit, fee manager and stake pool\n" +
			"authorities for an instance state account, as operators need them\n" +
			"before the instance is initialized.",
		Run: run,
	}

	programAddr string
	solidoAddr  string
)

func init() {
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

	for _, role := range []struct {
		name string
		seed []byte
	}{
		{"reserve", solido.ReserveAuthoritySeed},
		{"deposit", solido.DepositAuthoritySeed},
		{"fee manager", solido.FeeManagerAuthoritySeed},
		{"stake pool", solido.StakePoolAuthoritySeed},
	} {
		authority, err := solido.FindAuthority(solidoKey, role.seed, programKey)
		if err != nil {
			klog.Exitf("failed to derive %s authority: %s", role.name, err)
		}
		fmt.Printf("%-12s %s (bump %d)\n", role.name, authority.Address, authority.Bump)
	}
}
