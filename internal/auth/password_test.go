package auth

import "testing"

func TestVerifyPassword_Match(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if !VerifyPassword(hash, "correct horse battery staple") {
		t.Error("expected password to match its own hash")
	}
}

func TestVerifyPassword_Mismatch(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if VerifyPassword(hash, "secret2") {
		t.Error("expected mismatch for wrong password")
	}
}

// 不正な形式のハッシュでもpanicせず不一致として扱うことを検証する。
func TestVerifyPassword_MalformedHash(t *testing.T) {
	cases := []string{
		"",
		"not-a-bcrypt-hash",
		"$2a$zz$broken",
	}

	for _, hash := range cases {
		if VerifyPassword(hash, "anything") {
			t.Errorf("VerifyPassword(%q, ...) = true, want false", hash)
		}
	}
}

func TestHashPassword_ProducesDistinctHashes(t *testing.T) {
	h1, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	h2, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	// bcryptはソルト付きのため同一入力でもハッシュは異なる
	if h1 == h2 {
		t.Error("expected distinct hashes for the same password")
	}
}
