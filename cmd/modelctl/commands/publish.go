package commands

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	marketcmd "aimarket/contexts/asset-exchange/model-marketplace/application/commands"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"

	"github.com/spf13/cobra"
)

// publish <owner> <file>: upload a model through the content resolver, then mint.
func publishCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "publish <owner> <file>",
		Short: "Publish a model file and mint a token for it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			name := filepath.Base(args[1])
			result, err := marketplace.Handler.PublishModel.Execute(cmd.Context(), marketcmd.PublishModelCommand{
				Owner:       args[0],
				FileName:    name,
				ContentType: mime.TypeByExtension(filepath.Ext(name)),
				Content:     content,
				Description: description,
			})
			if err != nil {
				return err
			}
			fmt.Printf("minted token %s to %s\n", result.Token.TokenID, result.Token.Owner)
			fmt.Printf("  uri:     %s\n", result.Token.ContentURI)
			if gateway := entities.GatewayURL(result.Token.ContentURI, cfg.ContentGatewayURL); gateway != "" {
				fmt.Printf("  gateway: %s\n", gateway)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "model description stored in the metadata")
	return cmd
}
