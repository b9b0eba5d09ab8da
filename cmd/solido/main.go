package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/solido-labs/solido-go/cmd/solido/createsolido"
	"github.com/solido-labs/solido-go/cmd/solido/deposit"
	"github.com/solido-labs/solido-go/cmd/solido/derive"
	"github.com/solido-labs/solido-go/cmd/solido/show"
	"github.com/solido-labs/solido-go/cmd/solido/stakedeposit"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var cmd = cobra.Command{
	Use:   "solido",
	Short: "Interact with a solido liquid staking instance",
}

func init() {
	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	cmd.PersistentFlags().AddGoFlagSet(klogFlags)

	cmd.AddCommand(
		&createsolido.Cmd,
		&deposit.Cmd,
		&derive.Cmd,
		&show.Cmd,
		&stakedeposit.Cmd,
	)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	cobra.CheckErr(cmd.ExecuteContext(ctx))
}
