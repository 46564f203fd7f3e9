package commands

import (
	"fmt"
	"time"

	"aimarket/contexts/asset-exchange/model-marketplace/application/queries"

	"github.com/spf13/cobra"
)

func salesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sales <token-id>",
		Short: "Print the purchase history of a token, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokenID, err := parseTokenID(args[0])
			if err != nil {
				return err
			}
			result, err := marketplace.Handler.ListSales.Execute(cmd.Context(), queries.ListSalesQuery{TokenID: tokenID})
			if err != nil {
				return err
			}
			if len(result.Items) == 0 {
				fmt.Println("no sales")
				return nil
			}
			for _, receipt := range result.Items {
				fmt.Printf("%s\t%s -> %s\t%s\n",
					receipt.PurchasedAt.Format(time.RFC3339),
					receipt.Seller,
					receipt.Buyer,
					formatAmount(receipt.AmountPaid),
				)
			}
			return nil
		},
	}
}
