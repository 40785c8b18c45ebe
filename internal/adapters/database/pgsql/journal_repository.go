package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
	"github.com/SscSPs/ledger_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	journalSequenceName = "journal_entry"

	entryColumns = `entry_id, sequence_number, entry_date, memo, source_type, status, is_reversal,
		reverses_entry_id, reversed_by_entry_id, created_at, created_by, last_updated_at, last_updated_by`
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and lines.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// countedStatuses lists the entry statuses whose lines count toward balances.
// REVERSED originals stay counted so that they and their reversal net to zero.
func countedStatuses() []string {
	statuses := []string{}
	for _, s := range []domain.EntryStatus{domain.StatusDraft, domain.StatusPosted, domain.StatusReversed, domain.StatusLocked} {
		if s.CountsTowardBalances() {
			statuses = append(statuses, string(s))
		}
	}
	return statuses
}

// CommitEntry assigns the next sequence number and inserts the entry and its lines in one
// serializable transaction. The sequence counter row is bumped in the same transaction, so a
// failed commit never consumes a number.
func (r *PgxJournalRepository) CommitEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	err := r.InTx(ctx, func(tx pgx.Tx) error {
		if err := r.ensurePeriodOpen(ctx, tx, entry.EntryDate); err != nil {
			return err
		}
		seq, err := r.nextSequence(ctx, tx)
		if err != nil {
			return err
		}
		entry.SequenceNumber = seq
		return r.insertEntry(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// CommitReversal inserts the reversal entry and flags the original REVERSED in one transaction.
// The original row is locked first; if it is no longer POSTED, or is itself a
// reversal, nothing is written.
func (r *PgxJournalRepository) CommitReversal(ctx context.Context, originalEntryID string, reversal domain.JournalEntry) (*domain.JournalEntry, error) {
	err := r.InTx(ctx, func(tx pgx.Tx) error {
		var status string
		var isReversal bool
		err := tx.QueryRow(ctx, `SELECT status, is_reversal FROM journal_entries WHERE entry_id = $1 FOR UPDATE;`, originalEntryID).Scan(&status, &isReversal)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("entry %s: %w", originalEntryID, apperrors.ErrNotFound)
			}
			return classifyError("failed to lock original entry "+originalEntryID, err)
		}
		if domain.EntryStatus(status) != domain.StatusPosted {
			return fmt.Errorf("entry %s is %s: %w", originalEntryID, status, apperrors.ErrConflict)
		}
		if isReversal {
			return fmt.Errorf("entry %s is a reversal: %w", originalEntryID, apperrors.ErrConflict)
		}
		if err := r.ensurePeriodOpen(ctx, tx, reversal.EntryDate); err != nil {
			return err
		}

		seq, err := r.nextSequence(ctx, tx)
		if err != nil {
			return err
		}
		reversal.SequenceNumber = seq
		reversal.ReversesEntryID = &originalEntryID
		if err := r.insertEntry(ctx, tx, reversal); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE journal_entries
			SET status = $2, reversed_by_entry_id = $3, last_updated_at = $4, last_updated_by = $5
			WHERE entry_id = $1;
		`, originalEntryID, string(domain.StatusReversed), reversal.EntryID, reversal.CreatedAt, reversal.CreatedBy)
		if err != nil {
			return classifyError("failed to flag entry "+originalEntryID+" as reversed", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reversal, nil
}

// ensurePeriodOpen share-locks the period covering date so a concurrent status change
// either waits for this commit or makes it fail. A date outside every period passes;
// the engine has already decided whether that is allowed.
func (r *PgxJournalRepository) ensurePeriodOpen(ctx context.Context, tx pgx.Tx, date time.Time) error {
	var name, status string
	err := tx.QueryRow(ctx, `
		SELECT name, status FROM fiscal_periods
		WHERE $1::date BETWEEN start_date AND end_date
		FOR SHARE;
	`, domain.NormalizeDate(date)).Scan(&name, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return classifyError("failed to check fiscal period", err)
	}
	if domain.PeriodStatus(status) != domain.PeriodOpen {
		return fmt.Errorf("period %s is %s: %w", name, status, portsrepo.ErrPeriodNotPostable)
	}
	return nil
}

func (r *PgxJournalRepository) nextSequence(ctx context.Context, tx pgx.Tx) (int64, error) {
	var seq int64
	err := tx.QueryRow(ctx, `
		UPDATE ledger_sequences SET last_value = last_value + 1
		WHERE name = $1
		RETURNING last_value;
	`, journalSequenceName).Scan(&seq)
	if err != nil {
		return 0, classifyError("failed to assign sequence number", err)
	}
	return seq, nil
}

func (r *PgxJournalRepository) insertEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	_, err := tx.Exec(ctx, `INSERT INTO journal_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`,
		m.EntryID,
		m.SequenceNumber,
		m.EntryDate,
		m.Memo,
		m.SourceType,
		m.Status,
		m.IsReversal,
		m.ReversesEntryID,
		m.ReversedByEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return classifyError("failed to insert entry "+m.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (line_id, entry_id, line_number, account_id, debit, credit, description, cost_center, department)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, line := range entry.Lines {
		l := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery, l.LineID, m.EntryID, l.LineNumber, l.AccountID, l.Debit, l.Credit, l.Description, l.CostCenter, l.Department)
	}
	// Close surfaces the first failed insert
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return classifyError("failed to insert lines for entry "+m.EntryID, err)
	}
	return nil
}

// LockEntriesInRange moves POSTED entries dated within [start, end] to LOCKED.
func (r *PgxJournalRepository) LockEntriesInRange(ctx context.Context, start, end time.Time, userID string, now time.Time) (int64, error) {
	var n int64
	err := r.InTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE journal_entries
			SET status = $3, last_updated_at = $4, last_updated_by = $5
			WHERE status = $6 AND entry_date BETWEEN $1::date AND $2::date;
		`, domain.NormalizeDate(start), domain.NormalizeDate(end), string(domain.StatusLocked), now, userID, string(domain.StatusPosted))
		if err != nil {
			return classifyError("failed to lock entries", err)
		}
		n = tag.RowsAffected()
		return nil
	})
	return n, err
}

// FindEntryByID retrieves an entry with its lines ordered by line number.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	var m models.JournalEntry
	err := r.Pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE entry_id = $1;`, entryID).Scan(
		&m.EntryID,
		&m.SequenceNumber,
		&m.EntryDate,
		&m.Memo,
		&m.SourceType,
		&m.Status,
		&m.IsReversal,
		&m.ReversesEntryID,
		&m.ReversedByEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, classifyError("failed to find entry by ID "+entryID, err)
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT l.line_id, l.entry_id, l.line_number, l.account_id, a.code, l.debit, l.credit,
		       l.description, l.cost_center, l.department
		FROM journal_lines l
		JOIN gl_accounts a ON a.account_id = l.account_id
		WHERE l.entry_id = $1
		ORDER BY l.line_number;
	`, entryID)
	if err != nil {
		return nil, classifyError("failed to query lines for entry "+entryID, err)
	}
	lines, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalLine])
	if err != nil {
		return nil, classifyError("failed to scan lines for entry "+entryID, err)
	}

	entry := mapping.ToDomainJournalEntry(m, lines)
	return &entry, nil
}

// ListPostedLinesByAccount returns every counted line touching accountID in ledger order.
func (r *PgxJournalRepository) ListPostedLinesByAccount(ctx context.Context, accountID string) ([]domain.LedgerRow, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT e.entry_id, e.sequence_number, e.entry_date, e.memo, e.source_type, e.status,
		       l.line_id, l.line_number, l.description, l.debit, l.credit
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1 AND e.status = ANY($2)
		ORDER BY e.entry_date, e.sequence_number, l.line_number;
	`, accountID, countedStatuses())
	if err != nil {
		return nil, classifyError("failed to query ledger for account "+accountID, err)
	}
	lines, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LedgerLine])
	if err != nil {
		return nil, classifyError("failed to scan ledger rows for account "+accountID, err)
	}

	result := make([]domain.LedgerRow, len(lines))
	for i, l := range lines {
		result[i] = mapping.ToDomainLedgerRow(l)
	}
	return result, nil
}

// SumPostedLinesByAccount aggregates debit and credit totals per account over counted entries.
func (r *PgxJournalRepository) SumPostedLinesByAccount(ctx context.Context) ([]domain.AccountTotals, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT l.account_id, COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.status = ANY($1)
		GROUP BY l.account_id
		ORDER BY l.account_id;
	`, countedStatuses())
	if err != nil {
		return nil, classifyError("failed to sum ledger lines", err)
	}
	defer rows.Close()

	totals := []domain.AccountTotals{}
	for rows.Next() {
		var t domain.AccountTotals
		if err := rows.Scan(&t.AccountID, &t.TotalDebit, &t.TotalCredit); err != nil {
			return nil, classifyError("failed to scan account totals", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("error iterating account totals", err)
	}
	return totals, nil
}
