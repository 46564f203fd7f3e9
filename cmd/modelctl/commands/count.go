package commands

import (
	"fmt"

	"aimarket/contexts/asset-exchange/model-marketplace/application/queries"

	"github.com/spf13/cobra"
)

func countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of minted tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := queries.CountTokensUseCase{Tokens: storage.Tokens}.Execute(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(printer.Sprintf("%d", result.Count))
			return nil
		},
	}
}
