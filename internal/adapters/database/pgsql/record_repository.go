package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencashbook/cashbook_backend/internal/apperrors"
	"github.com/opencashbook/cashbook_backend/internal/core/domain"
	"github.com/opencashbook/cashbook_backend/internal/core/ports/repositories"
)

const recordColumns = `record_id, record_date, kind, reference_no, amount, category, notes, fiscal_year, segment, created_at, last_updated_at`

// PgxRecordRepository is the PostgreSQL record store.
type PgxRecordRepository struct {
	BaseRepository
}

// NewPgxRecordRepository creates a new repository for cash record data.
func NewPgxRecordRepository(pool *pgxpool.Pool) repositories.RecordRepository {
	return &PgxRecordRepository{BaseRepository{Pool: pool}}
}

const insertRecordQuery = `
	INSERT INTO cash_records (` + recordColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`

// SaveRecord inserts a single record.
func (r *PgxRecordRepository) SaveRecord(ctx context.Context, record domain.CashRecord) error {
	_, err := r.Pool.Exec(ctx, insertRecordQuery, recordArgs(record)...)
	if err != nil {
		return fmt.Errorf("failed to insert record %s: %w", record.RecordID, err)
	}
	return nil
}

// SaveRecords inserts a batch of records inside one database transaction.
// Any failure rolls back every insert in the batch.
func (r *PgxRecordRepository) SaveRecords(ctx context.Context, records []domain.CashRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	batch := &pgx.Batch{}
	for _, record := range records {
		batch.Queue(insertRecordQuery, recordArgs(record)...)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to execute record batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit record batch: %w", err)
	}
	return nil
}

// FindRecordByID retrieves a record by its ID.
func (r *PgxRecordRepository) FindRecordByID(ctx context.Context, recordID string) (*domain.CashRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM cash_records WHERE record_id = $1;`
	record, err := scanRecord(r.Pool.QueryRow(ctx, query, recordID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find record by ID %s: %w", recordID, err)
	}
	return record, nil
}

// UpdateRecord overwrites the mutable fields of an existing record.
func (r *PgxRecordRepository) UpdateRecord(ctx context.Context, record domain.CashRecord) error {
	query := `
		UPDATE cash_records
		SET record_date = $2, reference_no = $3, amount = $4, category = $5,
		    notes = $6, fiscal_year = $7, segment = $8, last_updated_at = $9
		WHERE record_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		record.RecordID,
		record.Date,
		record.ReferenceNo,
		record.Amount,
		record.Category,
		record.Notes,
		record.FiscalYear,
		record.Segment,
		record.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update record %s: %w", record.RecordID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteRecord removes a record permanently.
func (r *PgxRecordRepository) DeleteRecord(ctx context.Context, recordID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM cash_records WHERE record_id = $1;`, recordID)
	if err != nil {
		return fmt.Errorf("failed to delete record %s: %w", recordID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteRecordsWhere removes every record matching the filter. An empty
// filter is rejected so a missing parameter can never wipe the ledger.
func (r *PgxRecordRepository) DeleteRecordsWhere(ctx context.Context, filter repositories.RecordFilter) (int64, error) {
	where, args := buildFilterClause(filter)
	if where == "" {
		return 0, fmt.Errorf("%w: bulk delete requires at least one filter", apperrors.ErrValidation)
	}
	tag, err := r.Pool.Exec(ctx, `DELETE FROM cash_records WHERE `+where+`;`, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete records: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListRecords returns all records matching the filter. Ordering is left to
// the ledger package's canonical comparator.
func (r *PgxRecordRepository) ListRecords(ctx context.Context, filter repositories.RecordFilter) ([]domain.CashRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM cash_records`
	where, args := buildFilterClause(filter)
	if where != "" {
		query += ` WHERE ` + where
	}
	query += `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := []domain.CashRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating record rows: %w", err)
	}
	return records, nil
}

func recordArgs(record domain.CashRecord) []any {
	return []any{
		record.RecordID,
		record.Date,
		record.Kind,
		record.ReferenceNo,
		record.Amount,
		record.Category,
		record.Notes,
		record.FiscalYear,
		record.Segment,
		record.CreatedAt,
		record.LastUpdatedAt,
	}
}

func scanRecord(row pgx.Row) (*domain.CashRecord, error) {
	var record domain.CashRecord
	err := row.Scan(
		&record.RecordID,
		&record.Date,
		&record.Kind,
		&record.ReferenceNo,
		&record.Amount,
		&record.Category,
		&record.Notes,
		&record.FiscalYear,
		&record.Segment,
		&record.CreatedAt,
		&record.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// buildFilterClause translates a RecordFilter into a WHERE clause and its
// positional arguments.
func buildFilterClause(filter repositories.RecordFilter) (string, []any) {
	conditions := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Segment != nil {
		conditions = append(conditions, "segment = "+arg(*filter.Segment))
	}
	if filter.FiscalYear != nil {
		conditions = append(conditions, "fiscal_year = "+arg(*filter.FiscalYear))
	}
	if filter.Category != nil {
		conditions = append(conditions, "category = "+arg(*filter.Category))
	}
	if filter.Kind != nil {
		conditions = append(conditions, "kind = "+arg(*filter.Kind))
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, "record_date >= "+arg(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		conditions = append(conditions, "record_date <= "+arg(*filter.DateTo))
	}
	if filter.Search != nil {
		pattern := "%" + *filter.Search + "%"
		p := arg(pattern)
		conditions = append(conditions, "(category ILIKE "+p+" OR notes ILIKE "+p+" OR reference_no ILIKE "+p+")")
	}
	return strings.Join(conditions, " AND "), args
}
