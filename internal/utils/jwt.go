package utils // package utils holds token signing and password hashing helpers

import (
    "errors"
    "fmt"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every reason a token is rejected: bad signature,
// wrong algorithm, expiry, or missing claims.
var ErrInvalidToken = errors.New("invalid token")

// TokenClaims are the claims a session token carries.
type TokenClaims struct {
    Subject uint64    // sub: id of the admin or user
    Kind    string    // kind: "admin" or "user"
    Role    string    // role: admin role, empty for users
    Expires time.Time // exp
}

// SignToken builds and signs an HS256 JWT.  The claim set is sub, kind,
// role, exp and iat; sub is the decimal id so any JWT client can read it.
func SignToken(secret string, c TokenClaims) (string, error) {
    claims := jwt.MapClaims{
        "sub":  strconv.FormatUint(c.Subject, 10),
        "kind": c.Kind,
        "role": c.Role,
        "exp":  c.Expires.Unix(),
        "iat":  time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return t.SignedString([]byte(secret))
}

// ParseToken verifies raw against secret and returns its claims.  Only
// HMAC signatures are accepted; exp is required.
func ParseToken(secret, raw string) (TokenClaims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
        }
        return []byte(secret), nil
    }, jwt.WithExpirationRequired())
    if err != nil || !tok.Valid {
        return TokenClaims{}, ErrInvalidToken
    }
    mc, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return TokenClaims{}, ErrInvalidToken
    }
    sub, err := mc.GetSubject()
    if err != nil {
        return TokenClaims{}, ErrInvalidToken
    }
    id, err := strconv.ParseUint(sub, 10, 64)
    if err != nil || id == 0 {
        return TokenClaims{}, ErrInvalidToken
    }
    exp, err := mc.GetExpirationTime()
    if err != nil || exp == nil {
        return TokenClaims{}, ErrInvalidToken
    }
    kind, _ := mc["kind"].(string)
    role, _ := mc["role"].(string)
    return TokenClaims{Subject: id, Kind: kind, Role: role, Expires: exp.Time.UTC()}, nil
}
