package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/hefti/internal/model"
)

// SessionStore はセッション戦略が必要とする永続化操作のインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	FindPrincipalByKey(ctx context.Context, key string) (*model.Principal, error)
	DeleteByKey(ctx context.Context, key string) error
}

// SessionStrategy はDBセッションテーブル参照による認証戦略。
// 発行時にランダムな不透明キーを永続化し、検証のたびにストアを参照する。
type SessionStrategy struct {
	store  SessionStore
	maxAge time.Duration
	now    func() time.Time
}

// NewSessionStrategy はSessionStrategyを生成する。
// maxAgeは発行するセッションの有効期間を指定する。
func NewSessionStrategy(store SessionStore, maxAge time.Duration) *SessionStrategy {
	return &SessionStrategy{
		store:  store,
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Issue は暗号的ランダムキーを生成してセッションを永続化し、キーを返す。
// 永続化の失敗はストアエラーとしてそのまま返し、呼び出し側が
// サーバーエラーとして扱う（認証失敗にはしない）。
func (s *SessionStrategy) Issue(ctx context.Context, principal *model.Principal) (string, error) {
	key, err := generateSessionKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate session key: %w", err)
	}

	now := s.now()
	session := &model.Session{
		ID:        uuid.New().String(),
		UserID:    principal.UserID,
		Key:       key,
		ExpiresAt: now.Add(s.maxAge),
		CreatedAt: now,
	}

	if err := s.store.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	return key, nil
}

// Validate はトークンをセッションキーとしてストアに照会する。
// 未知のキー・失効済みはErrInvalidToken、ストア障害は
// ErrStoreUnavailableをラップして返す。検証はセッションを消費しない。
func (s *SessionStrategy) Validate(ctx context.Context, token string) (*model.Principal, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	principal, err := s.store.FindPrincipalByKey(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if principal == nil {
		return nil, ErrInvalidToken
	}

	return principal, nil
}

// Revoke は指定キーのセッションを削除する。
func (s *SessionStrategy) Revoke(ctx context.Context, token string) error {
	if err := s.store.DeleteByKey(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// generateSessionKey は暗号的に安全なセッションキーを生成する。
// 256ビットのランダム値のため、同時ログインでも衝突しない。
func generateSessionKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// compile-time interface check
var _ TokenStrategy = (*SessionStrategy)(nil)
