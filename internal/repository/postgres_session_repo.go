package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/hefti/internal/model"
)

// PostgresSessionRepo はPostgreSQLを使用したセッションリポジトリ。
// database/sqlのプール経由でアクセスするため、成功・不一致・エラーの
// いずれの経路でも接続は必ずプールに返却される。
type PostgresSessionRepo struct {
	db *sql.DB
}

// NewPostgresSessionRepo はPostgresSessionRepoを生成する。
func NewPostgresSessionRepo(db *sql.DB) *PostgresSessionRepo {
	return &PostgresSessionRepo{db: db}
}

// Create はセッションを作成する。
func (r *PostgresSessionRepo) Create(ctx context.Context, session *model.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, key, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		session.ID, session.UserID, session.Key, session.ExpiresAt, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindPrincipalByKey はセッションキーに対応する未失効セッションの本人情報を取得する。
// 該当セッションがない・失効済みの場合はnilを返す。
func (r *PostgresSessionRepo) FindPrincipalByKey(ctx context.Context, key string) (*model.Principal, error) {
	principal := &model.Principal{}
	err := r.db.QueryRowContext(ctx,
		`SELECT u.id, u.name
		 FROM sessions s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.key = $1 AND s.expires_at > now()`,
		key,
	).Scan(&principal.UserID, &principal.Name)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return principal, nil
}

// DeleteByKey は指定キーのセッションを削除する。
func (r *PostgresSessionRepo) DeleteByKey(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE key = $1`,
		key,
	)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired は失効済みセッションを削除し、削除件数を返す。
func (r *PostgresSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= now()`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted sessions: %w", err)
	}
	return n, nil
}

// compile-time interface check
var _ SessionRepository = (*PostgresSessionRepo)(nil)
