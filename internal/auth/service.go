package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/hefti/internal/model"
)

// UserFinder はログイン処理が必要とするユーザー検索のインターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByName(ctx context.Context, name string) (*model.User, error)
}

// LoginResult はログイン成功時の結果を表す。
type LoginResult struct {
	Username string
	Token    string
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	users    UserFinder
	strategy TokenStrategy
}

// NewService はServiceを生成する。
func NewService(users UserFinder, strategy TokenStrategy) *Service {
	return &Service{
		users:    users,
		strategy: strategy,
	}
}

// Login は資格情報を検証し、成功時にベアラートークンを発行する。
// ユーザー名不明とパスワード不一致はどちらもErrInvalidCredentialsを返し、
// どちらが原因かを外部に漏らさない。ストア・署名の障害は
// ErrInvalidCredentials以外のエラーとして返り、呼び出し側が500として扱う。
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.FindByName(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !VerifyPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	principal := &model.Principal{UserID: user.ID, Name: user.Name}
	token, err := s.strategy.Issue(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("login succeeded",
		slog.Int64("user_id", user.ID),
	)

	return &LoginResult{Username: user.Name, Token: token}, nil
}

// Logout は提示されたトークンを失効させる。
// 自己完結トークン戦略では何も起きない。
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.strategy.Revoke(ctx, token); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}
