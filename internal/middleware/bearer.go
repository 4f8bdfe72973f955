// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/hitoshi/hefti/internal/auth"
	"github.com/hitoshi/hefti/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// principalContextKey はリクエストコンテキストに本人情報を格納するためのキー。
var principalContextKey = contextKey("principal")

// TokenValidator はゲートウェイが必要とするトークン検証のインターフェース。
// auth.TokenStrategyの部分集合として定義する。
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*model.Principal, error)
}

// AuthDecisionRecorder はゲートウェイの判定結果を計測するインターフェース。
type AuthDecisionRecorder interface {
	RecordAuthDecision(decision string)
}

// ゲートウェイの判定結果。
const (
	DecisionAllowListed  = "allowlisted"
	DecisionAuthorized   = "authorized"
	DecisionUnauthorized = "unauthorized"
	DecisionStoreError   = "store_error"
)

// NewBearerMiddleware はすべてのリクエストを横取りする認証ゲートウェイを返す。
//
// 判定の流れ:
//  1. リクエストパスを正規化する
//  2. 許可リストに一致すればそのまま転送する
//  3. Authorizationヘッダーのベアラートークンを取り出す。不在なら401
//  4. バリデーターで検証し、成功なら本人情報をコンテキストに注入して転送、
//     失敗なら401
//
// ストア障害もクライアントには401を返す。不正トークンを送りつけるだけで
// ストアの稼働状況を探れないようにするためで、内部ログにのみ詳細を残す。
// 許可リストは完全一致またはパスセグメント境界での前置一致で判定する
// （"/api/auth/login" は "/api/auth/loginx" を許可しない）。
func NewBearerMiddleware(validator TokenValidator, allowList []string, recorder AuthDecisionRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqPath := normalizePath(r.URL.Path)

			// 1. 許可リスト判定（トークン処理より前に行う）
			if allowListed(allowList, reqPath) {
				record(recorder, DecisionAllowListed)
				next.ServeHTTP(w, r)
				return
			}

			// 2. ベアラートークンの抽出
			token, ok := bearerToken(r)
			if !ok {
				record(recorder, DecisionUnauthorized)
				writeUnauthorized(w)
				return
			}

			// 3. トークンの検証
			principal, err := validator.Validate(r.Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidToken) {
					record(recorder, DecisionUnauthorized)
					slog.Warn("invalid bearer token",
						slog.String("path", reqPath),
					)
				} else {
					// ストア障害等。外部には401のまま、内部では区別して記録する。
					record(recorder, DecisionStoreError)
					slog.Error("token validation failed",
						slog.String("path", reqPath),
						slog.String("error", err.Error()),
					)
				}
				writeUnauthorized(w)
				return
			}

			// 4. 本人情報をコンテキストに注入して転送
			record(recorder, DecisionAuthorized)
			ctx := context.WithValue(r.Context(), principalContextKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext はリクエストコンテキストから本人情報を取得する。
// ゲートウェイを通過したリクエストでのみ有効。
func PrincipalFromContext(ctx context.Context) (*model.Principal, error) {
	principal, ok := ctx.Value(principalContextKey).(*model.Principal)
	if !ok || principal == nil {
		return nil, fmt.Errorf("principal not found in context")
	}
	return principal, nil
}

// ContextWithPrincipal はコンテキストに本人情報を注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithPrincipal(ctx context.Context, principal *model.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// normalizePath はパスを単一の先頭スラッシュ付きに正規化する。
func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// allowListed はパスが許可リストに一致するかを判定する。
// ルート"/"は完全一致のみ。それ以外は完全一致または
// セグメント境界での前置一致とする。
func allowListed(allowList []string, reqPath string) bool {
	for _, allowed := range allowList {
		if allowed == "/" {
			if reqPath == "/" {
				return true
			}
			continue
		}
		if reqPath == allowed || strings.HasPrefix(reqPath, allowed+"/") {
			return true
		}
	}
	return false
}

// bearerToken はAuthorizationヘッダーからベアラートークンを取り出す。
// スキームの大文字小文字は区別しない。
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// writeUnauthorized は401の統一レスポンスを書き込む。
// 不在トークン・不正トークン・ストア障害のいずれでも同一レスポンスとする。
func writeUnauthorized(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
}

// record はレコーダーがnilでなければ判定結果を記録する。
func record(recorder AuthDecisionRecorder, decision string) {
	if recorder != nil {
		recorder.RecordAuthDecision(decision)
	}
}
