package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/hefti/internal/model"
)

// PostgresEntryRepo はPostgreSQLを使用した作業記録リポジトリ。
type PostgresEntryRepo struct {
	db *sql.DB
}

// NewPostgresEntryRepo はPostgresEntryRepoを生成する。
func NewPostgresEntryRepo(db *sql.DB) *PostgresEntryRepo {
	return &PostgresEntryRepo{db: db}
}

// FindByID は指定IDの記録を取得する。見つからない場合はnilを返す。
func (r *PostgresEntryRepo) FindByID(ctx context.Context, id int64) (*model.Entry, error) {
	entry := &model.Entry{}
	var description sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, spend_time, logdate, entry_type
		 FROM entries
		 WHERE id = $1`,
		id,
	).Scan(&entry.ID, &entry.Title, &description, &entry.SpendTime, &entry.LogDate, &entry.EntryType)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find entry: %w", err)
	}

	entry.Description = description.String
	return entry, nil
}

// List は全記録をlogdate昇順で返す。
func (r *PostgresEntryRepo) List(ctx context.Context) ([]*model.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, spend_time, logdate, entry_type
		 FROM entries
		 ORDER BY logdate, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByDateRange はlogdateがfrom以上to以下の記録をlogdate昇順で返す。
func (r *PostgresEntryRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]*model.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, spend_time, logdate, entry_type
		 FROM entries
		 WHERE logdate BETWEEN $1 AND $2
		 ORDER BY logdate, id`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries by date range: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Create は記録を作成し、採番されたIDを返す。
func (r *PostgresEntryRepo) Create(ctx context.Context, entry *model.Entry) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO entries (title, description, spend_time, logdate, entry_type)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		entry.Title, nullableString(entry.Description), entry.SpendTime, entry.LogDate, entry.EntryType,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create entry: %w", err)
	}
	return id, nil
}

// Update は記録を更新する。対象が存在しない場合はfalseを返す。
func (r *PostgresEntryRepo) Update(ctx context.Context, entry *model.Entry) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE entries
		 SET title = $1, description = $2, spend_time = $3, logdate = $4, entry_type = $5
		 WHERE id = $6`,
		entry.Title, nullableString(entry.Description), entry.SpendTime, entry.LogDate, entry.EntryType, entry.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update entry: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count updated entries: %w", err)
	}
	return n > 0, nil
}

// Delete は指定IDの記録を削除する。対象が存在しない場合はfalseを返す。
func (r *PostgresEntryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM entries WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete entry: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count deleted entries: %w", err)
	}
	return n > 0, nil
}

// scanEntries は結果セットをEntryのスライスに変換する。
func scanEntries(rows *sql.Rows) ([]*model.Entry, error) {
	var entries []*model.Entry
	for rows.Next() {
		entry := &model.Entry{}
		var description sql.NullString
		if err := rows.Scan(
			&entry.ID, &entry.Title, &description,
			&entry.SpendTime, &entry.LogDate, &entry.EntryType,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entry.Description = description.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	return entries, nil
}

// nullableString は空文字列をNULLとして格納するための変換を行う。
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// compile-time interface check
var _ EntryRepository = (*PostgresEntryRepo)(nil)
