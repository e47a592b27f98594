package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List documents recorded by the connected account",
	Long: `List the HashAdded records the connected account emitted, newest first.

Public RPC providers cap the block range of event queries. When that
happens the records received so far are shown with a warning; narrow
the range with --from and --to to reach older entries.

Use --local to list the submission attempts made from this machine,
including failed ones.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Uint64("from", 0, "first block to search")
	historyCmd.Flags().Uint64("to", 0, "last block to search (0 = latest)")
	historyCmd.Flags().Bool("local", false, "list local submission attempts instead")
	historyCmd.Flags().IntP("limit", "n", 20, "maximum local attempts to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	local, _ := cmd.Flags().GetBool("local") //nolint:errcheck // flag is registered
	if local {
		limit, _ := cmd.Flags().GetInt("limit") //nolint:errcheck // flag is registered
		return printLocalHistory(cmd, limit)
	}

	from, _ := cmd.Flags().GetUint64("from") //nolint:errcheck // flag is registered
	to, _ := cmd.Flags().GetUint64("to")     //nolint:errcheck // flag is registered
	r := domain.BlockRange{From: from}
	if to > 0 {
		r.To = &to
	}

	page, err := historyService.Records(cmd.Context(), r)
	if err != nil {
		return err
	}

	if len(page.Records) == 0 {
		cmd.Printf("No records for %s\n", page.Account)
	} else {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "BLOCK\tCONTENT ID\tTRANSACTION")
		for _, rec := range page.Records {
			fmt.Fprintf(w, "%d\t%s\t%s\n", rec.BlockNumber, rec.ContentID, rec.TxHash)
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("write history: %w", err)
		}
	}

	if page.Partial {
		cmd.Printf("Warning: history may be incomplete: %v\n", page.Err)
		if errors.Is(page.Err, domain.ErrRangeLimited) {
			cmd.Println("Narrow the block range with --from and --to to see older records.")
		}
	}
	return nil
}

func printLocalHistory(cmd *cobra.Command, limit int) error {
	sessions, err := historyService.Uploads(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		cmd.Println("No local submissions")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tOPERATION\tFILE\tPHASE\tDETAIL")
	for _, s := range sessions {
		detail := s.ErrorMessage()
		if detail == "" && s.Receipt != nil {
			detail = fmt.Sprintf("block %d", s.Receipt.BlockNumber)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			s.Operation,
			s.FileName,
			s.Phase,
			domain.Truncate(detail),
		)
	}
	return w.Flush()
}
