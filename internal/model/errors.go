package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, entry, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeEntryNotFound  = "ENTRY_NOT_FOUND"
	ErrCodeInvalidEntry   = "INVALID_ENTRY"
	ErrCodeInvalidWeek    = "INVALID_WEEK"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
)

// NewUnauthorizedError は認証エラーを生成する。
// トークン不在・無効トークン・資格情報不一致のいずれでも
// 外部には同一のレスポンスを返す（情報秘匿）。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証に失敗しました。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewEntryNotFoundError は記録未検出エラーを生成する。
func NewEntryNotFoundError(entryID int64) *APIError {
	return &APIError{
		Code:     ErrCodeEntryNotFound,
		Message:  fmt.Sprintf("指定された記録が見つかりません: %d", entryID),
		Category: "entry",
		Action:   "記録IDを確認してください。",
	}
}

// NewInvalidEntryError は記録のバリデーションエラーを生成する。
func NewInvalidEntryError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEntry,
		Message:  fmt.Sprintf("無効な記録です: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewInvalidWeekError は週指定のバリデーションエラーを生成する。
func NewInvalidWeekError(year, week int) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidWeek,
		Message:  fmt.Sprintf("無効な週指定です: %d年 第%d週", year, week),
		Category: "validation",
		Action:   "年と週番号（1〜53）を確認してください。",
	}
}

// NewInvalidRequestError はリクエスト形式のエラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエスト形式を確認してください。",
	}
}
