package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/healthmon/internal/account"
)

func newInspectCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [account-id]",
		Short: "Print the raw record of a single account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := rt.apiKey()
			if err != nil {
				return err
			}
			if key == "" {
				return fmt.Errorf("no API key: run 'healthmon set-key' or set HEALTHMON_API_KEY")
			}

			detail, err := rt.newClient(key).FetchAccount(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if msg := account.ExtractError(detail.Record); msg != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
			}
			fmt.Fprintln(out, detail.JSON)
			return nil
		},
	}
}
