package commands

import (
	"fmt"

	marketcmd "aimarket/contexts/asset-exchange/model-marketplace/application/commands"

	"github.com/spf13/cobra"
)

// list <token-id> <price> --as <owner>: open or reprice a listing.
func listCmd() *cobra.Command {
	var caller string
	cmd := &cobra.Command{
		Use:   "list <token-id> <price>",
		Short: "Put a token up for sale",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokenID, err := parseTokenID(args[0])
			if err != nil {
				return err
			}
			price, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			result, err := marketplace.Handler.ListToken.Execute(cmd.Context(), marketcmd.ListTokenCommand{
				TokenID: tokenID,
				Caller:  caller,
				Price:   price,
			})
			if err != nil {
				return err
			}
			fmt.Printf("token %s listed at %s\n", result.Listing.TokenID, formatAmount(result.Listing.Price))
			return nil
		},
	}
	cmd.Flags().StringVar(&caller, "as", "", "account listing the token (must be the owner)")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}
