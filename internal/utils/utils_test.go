package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenRoundTrip(t *testing.T) {
	exp := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	raw, err := SignToken("s3cret", TokenClaims{Subject: 7, Kind: "admin", Role: "super-admin", Expires: exp})
	if err != nil {
		t.Fatal(err)
	}
	c, err := ParseToken("s3cret", raw)
	if err != nil {
		t.Fatal(err)
	}
	if c.Subject != 7 || c.Kind != "admin" || c.Role != "super-admin" || !c.Expires.Equal(exp) {
		t.Fatalf("claims mismatch: %+v", c)
	}
}

func TestParseTokenRejects(t *testing.T) {
	good, _ := SignToken("s3cret", TokenClaims{Subject: 1, Kind: "user", Expires: time.Now().Add(time.Hour)})
	expired, _ := SignToken("s3cret", TokenClaims{Subject: 1, Kind: "user", Expires: time.Now().Add(-time.Hour)})
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString([]byte("s3cret"))

	for name, raw := range map[string]string{
		"wrong secret": good,
		"expired":      expired,
		"alg none":     none,
		"no exp":       noExp,
		"garbage":      "not.a.jwt",
	} {
		secret := "s3cret"
		if name == "wrong secret" {
			secret = "other"
		}
		if _, err := ParseToken(secret, raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Passw0rd!", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckPassword(hash, "Passw0rd!"); err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
}
