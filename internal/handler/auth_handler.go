// Package handler はHTTP APIのハンドラー層を提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/hefti/internal/auth"
	"github.com/hitoshi/hefti/internal/middleware"
	"github.com/hitoshi/hefti/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Login は資格情報を検証し、成功時にベアラートークンを発行する。
	Login(ctx context.Context, username, password string) (*auth.LoginResult, error)
	// Logout は提示されたトークンを失効させる。
	Logout(ctx context.Context, token string) error
}

// LoginAttemptRecorder はログイン試行の結果を計測するインターフェース。
type LoginAttemptRecorder interface {
	RecordLoginAttempt(result string)
}

// AuthHandler は認証のHTTPハンドラー。
type AuthHandler struct {
	service  AuthServiceInterface
	recorder LoginAttemptRecorder
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, recorder LoginAttemptRecorder) *AuthHandler {
	return &AuthHandler{
		service:  service,
		recorder: recorder,
	}
}

// --- リクエスト・レスポンス型 ---

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginUserBody はログインレスポンスのuserオブジェクト。
type loginUserBody struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// loginResponse はログイン成功時のレスポンス。
type loginResponse struct {
	User loginUserBody `json:"user"`
}

// Login は資格情報を検証してトークンを発行する。
// POST /api/auth/login
//
// ユーザー名不明とパスワード不一致はどちらも同一の401を返す。
// ストア・署名の障害は500を返す。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}
	if req.Username == "" || req.Password == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("usernameとpasswordは必須です"))
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.recordAttempt("invalid_credentials")
			writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
			return
		}
		h.recordAttempt("error")
		slog.Error("login failed",
			slog.String("error", err.Error()),
		)
		middleware.WriteInternalServerError(w)
		return
	}

	h.recordAttempt("success")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loginResponse{
		User: loginUserBody{
			Username: result.Username,
			Token:    result.Token,
		},
	})
}

// Logout は提示されたトークンを失効させる。
// POST /api/auth/logout
//
// ゲートウェイを通過済みのため、Authorizationヘッダーには
// 検証済みトークンが入っている。
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerTokenFromHeader(r)
	if token == "" {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		slog.Error("logout failed",
			slog.String("error", err.Error()),
		)
		middleware.WriteInternalServerError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// recordAttempt はレコーダーがnilでなければログイン試行を記録する。
func (h *AuthHandler) recordAttempt(result string) {
	if h.recorder != nil {
		h.recorder.RecordLoginAttempt(result)
	}
}
