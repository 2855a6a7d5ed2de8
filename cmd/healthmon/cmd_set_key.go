package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/healthmon/internal/credential"
)

func newSetKeyCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "set-key [api-key]",
		Short: "Store the Smartlead API key in the system keyring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := strings.TrimSpace(args[0])
			if value == "" {
				return fmt.Errorf("API key must not be empty")
			}

			creds, err := rt.credentials()
			if err != nil {
				return err
			}
			if err := creds.Set(credential.APIKeyName, value); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API Key saved successfully!")
			return nil
		},
	}
}
