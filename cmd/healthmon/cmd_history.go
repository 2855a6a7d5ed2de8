package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newHistoryCmd(rt *runtime) *cobra.Command {
	var (
		limit  int
		scanID string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent scans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rt.openHistory()
			if err != nil {
				return err
			}
			if s == nil {
				return fmt.Errorf("scan history is disabled (history.enabled=false)")
			}
			defer s.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()

			if scanID != "" {
				issues, err := s.GetScanIssues(cmd.Context(), scanID)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "CLIENT\tEMAIL\tPROTOCOL\tERROR")
				for _, a := range issues {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Client, a.Email, a.Protocol, a.Error)
				}
				return nil
			}

			scans, err := s.ListScans(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "ID\tSTARTED\tSTATUS\tTOTAL\tERRORS\tMESSAGE")
			for _, sc := range scans {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
					sc.ID,
					sc.StartedAt.Local().Format("2006-01-02 15:04:05"),
					sc.Status, sc.Total, sc.Errors, sc.Message,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of scans to show (0 for all)")
	cmd.Flags().StringVar(&scanID, "scan", "", "show the erroring accounts of one scan")
	return cmd
}
