package commands

import (
	"aimarket/contexts/asset-exchange/model-marketplace/application/queries"

	"github.com/spf13/cobra"
)

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <token-id>",
		Short: "Print owner, content URI and listing of a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokenID, err := parseTokenID(args[0])
			if err != nil {
				return err
			}
			result, err := marketplace.Handler.GetToken.Execute(cmd.Context(), queries.GetTokenQuery{TokenID: tokenID})
			if err != nil {
				return err
			}
			printSnapshot(result.Token, result.Listing)
			return nil
		},
	}
}
