// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// Passwordにはbcryptハッシュのみを格納し、平文は保持しない。
type User struct {
	ID        int64
	Name      string
	Password  string // bcryptハッシュ
	CreatedAt time.Time
}

// Principal は認証済みリクエストに紐付く本人情報を表す。
// ゲートウェイでの検証成功時に一度だけ解決され、リクエストの
// ライフタイム中は読み取り専用として扱う。
type Principal struct {
	UserID int64
	Name   string
}

// Session はサーバー側セッション戦略のセッションレコードを表す。
// Keyがベアラートークンとしてクライアントに渡される。
type Session struct {
	ID        string // UUID
	UserID    int64
	Key       string // 暗号的ランダムな不透明キー
	ExpiresAt time.Time
	CreatedAt time.Time
}
