// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/hefti/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByName は指定した名前のユーザーを取得する。見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.User, error)

	// Create はユーザーを作成し、採番されたIDをセットする。
	Create(ctx context.Context, user *model.User) error
}

// SessionRepository はセッションデータの永続化インターフェース。
// セッション戦略のバッキングストアアクセサとして機能する。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error

	// FindPrincipalByKey はセッションキーに対応する未失効セッションの
	// 本人情報を取得する。該当セッションがない・失効済みの場合はnilを返す。
	FindPrincipalByKey(ctx context.Context, key string) (*model.Principal, error)

	// DeleteByKey は指定キーのセッションを削除する。
	DeleteByKey(ctx context.Context, key string) error

	// DeleteExpired は失効済みセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// EntryRepository は作業記録の永続化インターフェース。
type EntryRepository interface {
	// FindByID は指定IDの記録を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Entry, error)

	// List は全記録をlogdate昇順で返す。
	List(ctx context.Context) ([]*model.Entry, error)

	// ListByDateRange はlogdateがfrom以上to以下の記録をlogdate昇順で返す。
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*model.Entry, error)

	// Create は記録を作成し、採番されたIDを返す。
	Create(ctx context.Context, entry *model.Entry) (int64, error)

	// Update は記録を更新する。対象が存在しない場合はfalseを返す。
	Update(ctx context.Context, entry *model.Entry) (bool, error)

	// Delete は指定IDの記録を削除する。対象が存在しない場合はfalseを返す。
	Delete(ctx context.Context, id int64) (bool, error)
}
