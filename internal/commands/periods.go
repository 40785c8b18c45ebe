package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_core/internal/app"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

func newPeriodsCommand(rt Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "periods",
		Short: "Manage fiscal periods",
	}

	var req dto.CreatePeriodRequest
	var operator string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a fiscal period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rt, func(ctx context.Context, a *app.App) error {
				period, err := a.Services.Period.CreatePeriod(ctx, req, operator)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created period %s %s..%s (%s) %s\n",
					period.Name, period.StartDate.Format(domain.DateLayout), period.EndDate.Format(domain.DateLayout),
					period.Status, period.PeriodID)
				return nil
			})
		},
	}
	create.Flags().StringVar(&req.Name, "name", "", "period name (required)")
	create.Flags().StringVar(&req.StartDate, "start", "", "first day YYYY-MM-DD (required)")
	create.Flags().StringVar(&req.EndDate, "end", "", "last day YYYY-MM-DD (required)")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("start")
	_ = create.MarkFlagRequired("end")
	create.Flags().StringVar(&operator, "as", defaultOperator, "user id recorded as the period's creator")

	setStatus := &cobra.Command{
		Use:   "set-status <periodID> <OPEN|CLOSED|LOCKED>",
		Short: "Open, close or lock a fiscal period",
		Long:  "Locking a period also locks every posted entry dated inside it. LOCKED is terminal.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := domain.PeriodStatus(strings.ToUpper(args[1]))
			if !status.IsValid() {
				return fmt.Errorf("unknown period status %q", args[1])
			}
			return withApp(cmd, rt, func(ctx context.Context, a *app.App) error {
				period, err := a.Services.Period.SetPeriodStatus(ctx, args[0], status, operator)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "period %s is now %s\n", period.Name, period.Status)
				return nil
			})
		},
	}
	setStatus.Flags().StringVar(&operator, "as", defaultOperator, "user id recorded as the period's updater")

	cmd.AddCommand(
		create,
		setStatus,
		&cobra.Command{
			Use:   "list",
			Short: "List fiscal periods",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, rt, func(ctx context.Context, a *app.App) error {
					periods, err := a.Services.Period.ListPeriods(ctx)
					if err != nil {
						return err
					}
					return writePeriodsTable(cmd.OutOrStdout(), periods)
				})
			},
		},
	)
	return cmd
}

func writePeriodsTable(w io.Writer, periods []domain.FiscalPeriod) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTART\tEND\tSTATUS\tID")
	for _, p := range periods {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.Name, p.StartDate.Format(domain.DateLayout), p.EndDate.Format(domain.DateLayout), p.Status, p.PeriodID)
	}
	return tw.Flush()
}
