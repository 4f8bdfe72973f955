package auth

import "golang.org/x/crypto/bcrypt"

// VerifyPassword は平文パスワードと格納済みbcryptハッシュを照合する。
// ハッシュが不正な形式の場合もpanicせず不一致として扱う。
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashPassword は平文パスワードのbcryptハッシュを生成する。
// ユーザー登録時にのみ使用する。
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
