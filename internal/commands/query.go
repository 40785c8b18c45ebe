package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_core/internal/app"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

func newSummaryCommand(rt Runtime) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print total debits, credits and balance for every account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rt, func(ctx context.Context, a *app.App) error {
				summaries, err := a.Services.Ledger.AccountSummary(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), dto.ToLedgerSummaryResponse(summaries))
				}
				return writeSummaryTable(cmd.OutOrStdout(), summaries)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newLedgerCommand(rt Runtime) *cobra.Command {
	var asJSON bool
	var byCode bool

	cmd := &cobra.Command{
		Use:   "ledger <accountID>",
		Short: "Print the lines posted to one account with a running balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rt, func(ctx context.Context, a *app.App) error {
				accountID := args[0]
				if byCode {
					account, err := a.Services.Account.GetAccountByCode(ctx, args[0])
					if err != nil {
						return err
					}
					accountID = account.AccountID
				}
				rows, err := a.Services.Ledger.AccountLedger(ctx, accountID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), dto.ToAccountLedgerResponse(accountID, rows))
				}
				return writeLedgerTable(cmd.OutOrStdout(), rows)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().BoolVar(&byCode, "code", false, "treat the argument as an account code")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSummaryTable(w io.Writer, summaries []domain.AccountSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CODE\tNAME\tTYPE\tDEBIT\tCREDIT\tBALANCE\t")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			s.Code, s.Name, s.AccountType,
			s.TotalDebit.StringFixed(2), s.TotalCredit.StringFixed(2), s.Balance.StringFixed(2))
	}
	return tw.Flush()
}

func writeLedgerTable(w io.Writer, rows []domain.LedgerRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SEQ\tDATE\tSTATUS\tMEMO\tDEBIT\tCREDIT\tBALANCE\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.SequenceNumber, r.EntryDate.Format(domain.DateLayout), r.Status, r.Memo,
			r.Debit.StringFixed(2), r.Credit.StringFixed(2), r.RunningBalance.StringFixed(2))
	}
	return tw.Flush()
}
