package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAPIKeyCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage API keys for the HTTP server",
	}

	var (
		user        string
		description string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Issue a key bound to a tenant and user; the key is printed once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			token, err := a.apiKeys.CreateAPIKey(commandContext(cmd), a.tenant, user, description)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	create.Flags().StringVar(&user, "user", "", "user the key acts as")
	create.Flags().StringVar(&description, "description", "", "note stored with the key")
	_ = create.MarkFlagRequired("user")

	cmd.AddCommand(create)
	return cmd
}
