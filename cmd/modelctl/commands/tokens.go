package commands

import (
	"fmt"

	"aimarket/contexts/asset-exchange/model-marketplace/application/queries"

	"github.com/spf13/cobra"
)

func tokensCmd() *cobra.Command {
	var (
		owner   string
		forSale bool
		cursor  string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Page through minted tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := queries.ListTokensQuery{
				Owner:  owner,
				Cursor: cursor,
				Limit:  limit,
			}
			if cmd.Flags().Changed("for-sale") {
				query.ForSale = &forSale
			}
			result, err := marketplace.Handler.ListTokens.Execute(cmd.Context(), query)
			if err != nil {
				return err
			}
			for _, item := range result.Items {
				price := "-"
				if item.Listing.ForSale {
					price = formatAmount(item.Listing.Price)
				}
				fmt.Printf("%s\t%s\t%s\t%s\n", item.Token.TokenID, item.Token.Owner, price, item.Token.ContentURI)
			}
			if result.NextCursor != "" {
				fmt.Printf("next cursor: %s\n", result.NextCursor)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "only tokens held by this account")
	cmd.Flags().BoolVar(&forSale, "for-sale", false, "filter on listing state")
	cmd.Flags().StringVar(&cursor, "cursor", "", "cursor from a previous page")
	cmd.Flags().IntVar(&limit, "limit", 20, "page size (1-100)")
	return cmd
}
