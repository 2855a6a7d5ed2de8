package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/healthmon/internal/account"
	"github.com/nhle/healthmon/internal/export"
	"github.com/nhle/healthmon/internal/scan"
	"github.com/nhle/healthmon/internal/source"
)

func newScanCmd(rt *runtime) *cobra.Command {
	var (
		errorsOnly bool
		search     string
		emails     bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan all accounts and print the health report",
		Long: `Fetches every email account, flags failures and prints the health report.

With --emails the visible accounts' addresses are printed instead, one per
line, after applying --errors-only and --search.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := rt.apiKey()
			if err != nil {
				return err
			}

			opts := scan.Options{
				NewSource: func(k string) source.AccountSource { return rt.newClient(k) },
				Logger:    rt.logger,
			}
			history, err := rt.openHistory()
			if err != nil {
				return err
			}
			if history != nil {
				defer history.Close()
				opts.History = history
			}

			progress := func(n int) {
				fmt.Fprintf(cmd.ErrOrStderr(), "\rScanning... (%d found)", n)
			}
			res, err := scan.New(opts).Run(cmd.Context(), key, progress)
			fmt.Fprintln(cmd.ErrOrStderr())
			if errors.Is(err, scan.ErrNoCredential) {
				return fmt.Errorf("no API key: run 'healthmon set-key' or set HEALTHMON_API_KEY")
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), res.Message)

			out := cmd.OutOrStdout()
			if emails {
				visible := account.Filter(res.Accounts, account.Query{ErrorsOnly: errorsOnly, Search: search})
				if len(visible) > 0 {
					fmt.Fprintln(out, export.Emails(visible))
				}
				return nil
			}
			fmt.Fprintln(out, export.Report(res.Accounts, time.Now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&errorsOnly, "errors-only", false, "only accounts with errors (with --emails)")
	cmd.Flags().StringVar(&search, "search", "", "filter by client name or email (with --emails)")
	cmd.Flags().BoolVar(&emails, "emails", false, "print the filtered email list instead of the report")
	return cmd
}
