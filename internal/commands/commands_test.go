package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_core/internal/app"
	"github.com/SscSPs/ledger_core/internal/commands"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/SscSPs/ledger_core/internal/platform/config"
)

const chartCSV = `code,name,account_type,normal_balance,is_control_account,is_locked
1000,Cash,asset,,false,false
1500,Accumulated Depreciation,ASSET,CREDIT,true,false
3000,Owner Capital,EQUITY,,,
6100,Depreciation Expense,EXPENSE,,false,false
`

// testLedger shares one in-memory ledger across command runs.
type testLedger struct {
	cfg *config.Config
	app *app.App
}

func newTestLedger(t *testing.T) *testLedger {
	t.Helper()
	cfg := &config.Config{
		StorageDriver:        config.StorageDriverMemory,
		JWTSecret:            "cli-test-secret",
		JWTIssuer:            "ledger-core",
		JWTExpiryDuration:    time.Hour,
		CommitMaxRetries:     1,
		CommitRetryBaseDelay: time.Millisecond,
	}
	a, err := app.New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return &testLedger{cfg: cfg, app: a}
}

func (l *testLedger) runtime() commands.Runtime {
	return commands.Runtime{
		LoadConfig: func() (*config.Config, error) { return l.cfg, nil },
		NewApp: func(context.Context, *config.Config, *slog.Logger) (*app.App, error) {
			return l.app, nil
		},
	}
}

func (l *testLedger) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand(l.runtime())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (l *testLedger) seed(t *testing.T) {
	t.Helper()
	_, err := l.run(t, "", "accounts", "import", writeFile(t, "chart.csv", chartCSV))
	require.NoError(t, err)
	_, err = l.run(t, "", "periods", "create", "--name", "FY2025-01", "--start", "2025-01-01", "--end", "2025-01-31")
	require.NoError(t, err)
}

func TestAccountsImport_IsRerunnable(t *testing.T) {
	l := newTestLedger(t)
	path := writeFile(t, "chart.csv", chartCSV)

	out, err := l.run(t, "", "accounts", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 4 accounts, skipped 0")

	out, err = l.run(t, "", "accounts", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 0 accounts, skipped 4")

	out, err = l.run(t, "", "accounts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Accumulated Depreciation")

	acc, err := l.app.Services.Account.GetAccountByCode(context.Background(), "1500")
	require.NoError(t, err)
	assert.True(t, acc.IsControlAccount)
	assert.Equal(t, domain.CreditNormal, acc.NormalBalance)
}

func TestReadAccountsCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{"wrong header", "id,name,type,normal,control,locked\n", "header column 1"},
		{"bad flag", "code,name,account_type,normal_balance,is_control_account,is_locked\n1000,Cash,ASSET,,maybe,false\n", "row 2"},
		{"bad type", "code,name,account_type,normal_balance,is_control_account,is_locked\n1000,Cash,MONEY,,false,false\n", "row 2"},
		{"short row", "code,name,account_type,normal_balance,is_control_account,is_locked\n1000,Cash\n", "reading accounts CSV"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := commands.ReadAccountsCSV(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPost_SystemBatchReachesControlAccount(t *testing.T) {
	l := newTestLedger(t)
	l.seed(t)

	batch := `[
		{"entryDate": "2025-01-02", "memo": "capital", "lines": [
			{"accountCode": "1000", "debit": "5000.00", "credit": "0"},
			{"accountCode": "3000", "debit": "0", "credit": "5000.00"}
		]},
		{"entryDate": "2025-01-31", "memo": "january depreciation", "sourceType": "DEPRECIATION", "lines": [
			{"accountCode": "6100", "debit": "41.67", "credit": "0"},
			{"accountCode": "1500", "debit": "0", "credit": "41.67"}
		]}
	]`
	out, err := l.run(t, batch, "post", "--file", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "posted entry #1")
	assert.Contains(t, out, "posted entry #2")

	out, err = l.run(t, "", "summary", "--json")
	require.NoError(t, err)
	var summary dto.LedgerSummaryResponse
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	balances := map[string]string{}
	for _, s := range summary.Accounts {
		balances[s.Code] = s.Balance.StringFixed(2)
	}
	assert.Equal(t, map[string]string{"1000": "5000.00", "1500": "41.67", "3000": "5000.00", "6100": "41.67"}, balances)

	out, err = l.run(t, "", "ledger", "--code", "1000")
	require.NoError(t, err)
	assert.Contains(t, out, "capital")
	assert.Contains(t, out, "5000.00")
}

func TestPost_RejectionStopsBatch(t *testing.T) {
	l := newTestLedger(t)
	l.seed(t)

	path := writeFile(t, "draft.json", `{"entryDate": "2025-01-05", "memo": "typo", "lines": [
		{"accountCode": "1000", "debit": "100.00", "credit": "0"},
		{"accountCode": "3000", "debit": "0", "credit": "99.99"}
	]}`)
	_, err := l.run(t, "", "post", "--file", path)
	require.Error(t, err)
	assert.Equal(t, domain.ReasonUnbalanced, domain.ReasonOf(err))

	summaries, err := l.app.Services.Ledger.AccountSummary(context.Background())
	require.NoError(t, err)
	for _, s := range summaries {
		assert.True(t, s.Balance.IsZero())
	}
}

func TestPost_MalformedDraftFailsBeforeStorage(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.run(t, `{"memo": "no date", "lines": []}`, "post", "-f", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "draft 1")
}

func TestReverse(t *testing.T) {
	l := newTestLedger(t)
	l.seed(t)
	_, err := l.run(t, `{"entryDate": "2025-01-10", "memo": "deposit", "lines": [
		{"accountCode": "1000", "debit": "10", "credit": "0"},
		{"accountCode": "3000", "debit": "0", "credit": "10"}
	]}`, "post", "-f", "-")
	require.NoError(t, err)

	cash, err := l.app.Services.Account.GetAccountByCode(context.Background(), "1000")
	require.NoError(t, err)
	rows, err := l.app.Services.Ledger.AccountLedger(context.Background(), cash.AccountID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	out, err := l.run(t, "", "reverse", rows[0].EntryID, "--date", "2025-01-20")
	require.NoError(t, err)
	assert.Contains(t, out, "dated 2025-01-20")

	_, err = l.run(t, "", "reverse", rows[0].EntryID)
	require.Error(t, err)
	assert.Equal(t, domain.ReasonNotReversible, domain.ReasonOf(err))
}

func TestPeriods_LockIsTerminal(t *testing.T) {
	l := newTestLedger(t)
	l.seed(t)
	periods, err := l.app.Services.Period.ListPeriods(context.Background())
	require.NoError(t, err)
	require.Len(t, periods, 1)

	out, err := l.run(t, "", "periods", "set-status", periods[0].PeriodID, "locked")
	require.NoError(t, err)
	assert.Contains(t, out, "is now LOCKED")

	_, err = l.run(t, "", "periods", "set-status", periods[0].PeriodID, "OPEN")
	require.Error(t, err)

	_, err = l.run(t, "", "periods", "set-status", periods[0].PeriodID, "ARCHIVED")
	require.Error(t, err)
}

func TestTokenIssue(t *testing.T) {
	l := newTestLedger(t)

	out, err := l.run(t, "", "token", "issue", "--subject", "depreciation-job", "--can-post", "--system")
	require.NoError(t, err)

	claims := &middleware.LedgerClaims{}
	_, err = jwt.ParseWithClaims(strings.TrimSpace(out), claims, func(*jwt.Token) (interface{}, error) {
		return []byte(l.cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{UserID: "depreciation-job", CanPostEntries: true, IsSystemProcess: true}, claims.Actor())
	assert.Equal(t, "ledger-core", claims.Issuer)
}

func TestMigrate_RequiresPostgres(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.run(t, "", "migrate", "up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}
