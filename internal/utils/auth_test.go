package utils

import (
	"testing"
	"time"

	"github.com/xelth-com/recoverydesk/internal/config"
)

func TestPasswordHashing(t *testing.T) {
	password := "admin123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if hash == password {
		t.Error("Hash should not match plaintext password")
	}

	if !CheckPasswordHash(password, hash) {
		t.Error("Password should match hash")
	}
	if CheckPasswordHash("wrongpassword", hash) {
		t.Error("Wrong password should not match hash")
	}
}

func TestOperatorToken(t *testing.T) {
	cfg := &config.Config{
		JWTSecret: "test-secret-key-12345",
		TokenTTL:  time.Hour,
	}

	token, expiresAt, err := GenerateOperatorToken(cfg)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if token == "" {
		t.Fatal("Token should not be empty")
	}
	if !expiresAt.After(time.Now()) {
		t.Errorf("Expiry should be in the future, got %v", expiresAt)
	}

	claims, err := ValidateToken(token, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if claims["sub"] != "operator" {
		t.Errorf("Expected subject operator, got %v", claims["sub"])
	}

	if _, err := ValidateToken(token, "wrong-key"); err == nil {
		t.Error("Validation should fail with wrong key")
	}
}

func TestOperatorToken_Expired(t *testing.T) {
	cfg := &config.Config{JWTSecret: "k", TokenTTL: -time.Minute}

	token, _, err := GenerateOperatorToken(cfg)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if _, err := ValidateToken(token, cfg.JWTSecret); err == nil {
		t.Error("Expired token should not validate")
	}
}

func TestIDGenerator(t *testing.T) {
	gen, err := NewIDGenerator(7)
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	seen := make(map[int64]bool)
	var last int64
	for i := 0; i < 1000; i++ {
		id := gen.Next()
		if seen[id] {
			t.Fatalf("Duplicate id %d after %d calls", id, i)
		}
		if id <= last {
			t.Fatalf("Ids should increase: %d after %d", id, last)
		}
		seen[id] = true
		last = id
	}

	if _, err := NewIDGenerator(5000); err == nil {
		t.Error("Node id outside snowflake range should fail")
	}
}
