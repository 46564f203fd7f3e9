package commands

import (
	"fmt"

	marketcmd "aimarket/contexts/asset-exchange/model-marketplace/application/commands"

	"github.com/spf13/cobra"
)

// buy <token-id> <payment> --as <buyer>: settle a purchase of a listed token.
func buyCmd() *cobra.Command {
	var buyer string
	cmd := &cobra.Command{
		Use:   "buy <token-id> <payment>",
		Short: "Buy a listed token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokenID, err := parseTokenID(args[0])
			if err != nil {
				return err
			}
			payment, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			result, err := marketplace.Handler.BuyToken.Execute(cmd.Context(), marketcmd.BuyTokenCommand{
				TokenID: tokenID,
				Buyer:   buyer,
				Payment: payment,
			})
			if err != nil {
				return err
			}
			receipt := result.Receipt
			fmt.Printf("token %s sold by %s to %s\n", receipt.TokenID, receipt.Seller, receipt.Buyer)
			fmt.Printf("  price:   %s\n", formatAmount(receipt.Price))
			fmt.Printf("  paid:    %s\n", formatAmount(receipt.AmountPaid))
			fmt.Printf("  receipt: %s\n", receipt.ReceiptID)
			return nil
		},
	}
	cmd.Flags().StringVar(&buyer, "as", "", "buying account")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}
