package commands

import (
	"fmt"

	marketcmd "aimarket/contexts/asset-exchange/model-marketplace/application/commands"

	"github.com/spf13/cobra"
)

// mint <owner> <content-uri>: register a content URI under owner.
func mintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mint <owner> <content-uri>",
		Short: "Mint a token for an existing content URI",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := marketplace.Handler.MintToken.Execute(cmd.Context(), marketcmd.MintTokenCommand{
				Owner:      args[0],
				ContentURI: args[1],
			})
			if err != nil {
				return err
			}
			fmt.Printf("minted token %s to %s\n", result.Token.TokenID, result.Token.Owner)
			return nil
		},
	}
}
