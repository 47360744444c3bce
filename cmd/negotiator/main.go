package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "negotiator",
		Short: "Detailed routing negotiation on synthetic instances",
		Long: `negotiator generates a synthetic routing instance and runs the
negotiated congestion loop on every region of it.

        $ negotiator run --regions 8 --nets 64 --seed 7
        `,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newRunCmd(v))
	rootCmd.AddCommand(newStatesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
