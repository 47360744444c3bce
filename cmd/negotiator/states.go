package main

import (
	"fmt"

	"github.com/lintang-b-s/Negotiatorx/pkg/negotiation"
	"github.com/spf13/cobra"
)

func newStatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "states",
		Short: "List the slack states, mildest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range negotiation.SlackStates() {
				marker := ""
				if !s.IsStrategy() {
					marker = " (sentinel)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%2d %s%s\n", uint8(s), s, marker)
			}
			return nil
		},
	}
}
