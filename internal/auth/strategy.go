// Package auth は認証のコアロジックを提供する。
//
// トークンの発行と検証は競合する2つの戦略を1つのインターフェースに
// 統一している。SessionStrategyはDBのセッションテーブルを参照する
// 不透明キー方式、ClaimsStrategyは署名付き自己完結トークン方式で、
// デプロイ時の設定でどちらか一方を選択する。ゲートウェイ側は
// TokenStrategyインターフェースのみに依存する。
package auth

import (
	"context"
	"errors"

	"github.com/hitoshi/hefti/internal/model"
)

// ErrInvalidToken はトークンが提示されたが受理できないことを示す。
// 署名不正・期限切れ・未知のセッションキーのいずれも外部には
// 区別せずこのエラーに正規化する。
var ErrInvalidToken = errors.New("invalid token")

// ErrStoreUnavailable はバッキングストアの障害を示す。
// ゲートウェイは外部には401を返しつつ、内部ログでは
// ErrInvalidTokenと区別して記録する。
var ErrStoreUnavailable = errors.New("session store unavailable")

// ErrInvalidCredentials はログイン時の資格情報不一致を示す。
// ユーザー名不明とパスワード不一致は区別しない。
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenStrategy はトークンの発行・検証・失効を提供する。
type TokenStrategy interface {
	// Issue は認証済みの本人情報に対するベアラートークンを発行する。
	Issue(ctx context.Context, principal *model.Principal) (string, error)

	// Validate はトークンを検証し、有効であれば本人情報を返す。
	// 受理できないトークンにはErrInvalidTokenを、ストア障害には
	// ErrStoreUnavailableをラップしたエラーを返す。
	// 検証は冪等であり、トークンの将来の有効性に影響しない。
	Validate(ctx context.Context, token string) (*model.Principal, error)

	// Revoke はトークンを失効させる。自己完結トークン戦略では
	// サーバー側に状態がないため何もしない。
	Revoke(ctx context.Context, token string) error
}
