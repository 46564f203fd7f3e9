package commands

import (
	"fmt"

	"aimarket/contexts/asset-exchange/model-marketplace/application/queries"

	"github.com/spf13/cobra"
)

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account>",
		Short: "Print proceeds credited to an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := marketplace.Handler.GetBalance.Execute(cmd.Context(), queries.GetBalanceQuery{Account: args[0]})
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", result.Account, formatAmount(result.Balance))
			return nil
		},
	}
}
