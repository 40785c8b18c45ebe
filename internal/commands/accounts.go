package commands

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_core/internal/app"
	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

const (
	numAccountFields = 6
	colCode          = 0
	colName          = 1
	colType          = 2
	colNormal        = 3
	colControl       = 4
	colLocked        = 5
)

var accountCSVHeader = []string{"code", "name", "account_type", "normal_balance", "is_control_account", "is_locked"}

func newAccountsCommand(rt Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage the chart of accounts",
	}

	var operator string
	importCmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Create accounts from a CSV file",
		Long: `Columns: code,name,account_type,normal_balance,is_control_account,is_locked.
The first row is a header. normal_balance may be empty to use the account type's default.
Codes that already exist are skipped, so an import can be re-run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			reqs, err := ReadAccountsCSV(f)
			if err != nil {
				return err
			}
			return withApp(cmd, rt, func(ctx context.Context, a *app.App) error {
				return runImportAccounts(ctx, cmd.OutOrStdout(), a, reqs, operator)
			})
		},
	}
	importCmd.Flags().StringVar(&operator, "as", defaultOperator, "user id recorded as the accounts' creator")

	cmd.AddCommand(
		importCmd,
		&cobra.Command{
			Use:   "list",
			Short: "List the chart of accounts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, rt, func(ctx context.Context, a *app.App) error {
					accounts, err := a.Services.Account.ListAccounts(ctx)
					if err != nil {
						return err
					}
					return writeAccountsTable(cmd.OutOrStdout(), accounts)
				})
			},
		},
	)
	return cmd
}

// ReadAccountsCSV parses a chart-of-accounts CSV into create requests.
func ReadAccountsCSV(r io.Reader) ([]dto.CreateAccountRequest, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numAccountFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	for i, col := range accountCSVHeader {
		if !strings.EqualFold(strings.TrimSpace(records[0][i]), col) {
			return nil, fmt.Errorf("header column %d is %q, want %q", i+1, records[0][i], col)
		}
	}

	v, err := dto.NewValidator()
	if err != nil {
		return nil, err
	}

	reqs := make([]dto.CreateAccountRequest, 0, len(records)-1)
	for i, rec := range records[1:] {
		req, err := unmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := v.Struct(req); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func unmarshalAccount(record []string) (dto.CreateAccountRequest, error) {
	control, err := parseFlag(record[colControl])
	if err != nil {
		return dto.CreateAccountRequest{}, fmt.Errorf("is_control_account: %w", err)
	}
	locked, err := parseFlag(record[colLocked])
	if err != nil {
		return dto.CreateAccountRequest{}, fmt.Errorf("is_locked: %w", err)
	}
	return dto.CreateAccountRequest{
		Code:             strings.TrimSpace(record[colCode]),
		Name:             strings.TrimSpace(record[colName]),
		AccountType:      domain.AccountType(strings.ToUpper(strings.TrimSpace(record[colType]))),
		NormalBalance:    domain.NormalBalance(strings.ToUpper(strings.TrimSpace(record[colNormal]))),
		IsControlAccount: control,
		IsLocked:         locked,
	}, nil
}

func parseFlag(s string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

func runImportAccounts(ctx context.Context, out io.Writer, a *app.App, reqs []dto.CreateAccountRequest, operator string) error {
	var created, skipped int
	for _, req := range reqs {
		_, err := a.Services.Account.CreateAccount(ctx, req, operator)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrDuplicate):
			skipped++
			fmt.Fprintf(out, "skipped %s: already exists\n", req.Code)
		default:
			return fmt.Errorf("account %s: %w", req.Code, err)
		}
	}
	fmt.Fprintf(out, "imported %d accounts, skipped %d\n", created, skipped)
	return nil
}

func writeAccountsTable(w io.Writer, accounts []domain.GLAccount) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tTYPE\tNORMAL\tCONTROL\tLOCKED\tACTIVE\tID")
	for _, acc := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%t\t%t\t%s\n",
			acc.Code, acc.Name, acc.AccountType, acc.NormalBalance,
			acc.IsControlAccount, acc.IsLocked, acc.IsActive, acc.AccountID)
	}
	return tw.Flush()
}
