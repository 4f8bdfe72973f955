package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hitoshi/hefti/internal/model"
)

// Claims は署名付きトークンに埋め込むクレーム。
// subにユーザーID、nameに表示名、expに失効時刻を持つ。
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
}

// ClaimsStrategy はHMAC署名付き自己完結トークンによる認証戦略。
// サーバー側に状態を持たず、検証は署名と失効時刻のみで完結する。
// 署名鍵はプロセス全体で1つ、起動時に設定から注入されイミュータブル。
type ClaimsStrategy struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewClaimsStrategy はClaimsStrategyを生成する。
// ttlは発行するトークンの有効期間を指定する。
func NewClaimsStrategy(secret []byte, ttl time.Duration) *ClaimsStrategy {
	return &ClaimsStrategy{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue は本人情報を埋め込んだHS256署名済みトークンを発行する。
func (s *ClaimsStrategy) Issue(ctx context.Context, principal *model.Principal) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(principal.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Name: principal.Name,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate はトークンの署名と失効時刻を検証し、本人情報を復元する。
// 署名不正・構造不正・期限切れはすべてErrInvalidTokenに正規化する。
func (s *ClaimsStrategy) Validate(ctx context.Context, token string) (*model.Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject", ErrInvalidToken)
	}

	return &model.Principal{UserID: userID, Name: claims.Name}, nil
}

// Revoke は何もしない。自己完結トークンはサーバー側の状態を持たない。
func (s *ClaimsStrategy) Revoke(ctx context.Context, token string) error {
	return nil
}

// compile-time interface check
var _ TokenStrategy = (*ClaimsStrategy)(nil)
