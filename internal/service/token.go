// Package service holds the collaborators handlers call besides the store:
// session token issuing, the object detection client and the event
// publisher.
package service

import (
	"errors"
	"time"

	"github.com/marketplace/grocery-api/internal/model"
	"github.com/marketplace/grocery-api/internal/utils"
)

// ErrWrongSubject is returned when a valid token names a subject of the
// other kind, e.g. a user token on an admin route.
var ErrWrongSubject = errors.New("token subject kind mismatch")

// Session is a freshly minted token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// TokenIssuer mints and verifies session tokens.
type TokenIssuer struct {
	secret string
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl}
}

// Issue signs a token for the given subject.  There is no refresh: once it
// expires the subject logs in again.
func (t *TokenIssuer) Issue(kind model.SubjectKind, id uint64, role string) (Session, error) {
	exp := time.Now().UTC().Add(t.ttl)
	raw, err := utils.SignToken(t.secret, utils.TokenClaims{Subject: id, Kind: string(kind), Role: role, Expires: exp})
	if err != nil {
		return Session{}, err
	}
	return Session{Token: raw, ExpiresAt: exp}, nil
}

// Verify checks raw and that it was issued for want.  It returns the
// subject id.
func (t *TokenIssuer) Verify(raw string, want model.SubjectKind) (uint64, error) {
	c, err := utils.ParseToken(t.secret, raw)
	if err != nil {
		return 0, err
	}
	if c.Kind != string(want) {
		return 0, ErrWrongSubject
	}
	return c.Subject, nil
}

// TTL is the validity period of issued tokens.
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }
