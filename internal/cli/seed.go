package cli

import (
	"fmt"

	"chatbot-admin/internal/services"
	"chatbot-admin/internal/storage"

	"github.com/spf13/cobra"
)

func newSeedCommand() *cobra.Command {
	var sample bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert the tool catalog and optionally a sample chatbot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := services.NewToolService(a.store).SeedCatalog(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tool catalog: %d tools upserted\n", n)

			if !sample {
				return nil
			}
			files, err := storage.NewLocal(a.cfg.StorageDir)
			if err != nil {
				return err
			}
			created, err := services.NewChatbotService(a.store, files, a.aead).SeedSampleChatbot(ctx)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintln(cmd.OutOrStdout(), "sample chatbot created")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "sample chatbot already exists")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&sample, "sample", false, "also create the sample chatbot configuration")
	return cmd
}
