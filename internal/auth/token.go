package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/patchwork-crafts/patchwork-backend/internal/apperr"
)

// Canonical client-facing messages. The texts are part of the wire contract
// and must not change.
const (
	MsgTokenRequired     = "Token Required"
	MsgBearerRequired    = "Bearer Required"
	MsgInvalidSignature  = "Invalid Token Signature"
	MsgSignatureRequired = "Token Signature is required"
	MsgTokenExpired      = "Token Expired"
	MsgTokenIDRequired   = "Token ID required"
)

// Credential is the decoded identity extracted from a verified token. It is
// owned by the request context for one request/response cycle.
type Credential struct {
	ID string `json:"id"`
}

// TokenCodec signs and verifies HS256 bearer tokens carrying an {id} claim.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the lifetime encoded into signed tokens.
func (c *TokenCodec) TTL() time.Duration { return c.ttl }

// Sign issues a fresh token for cred, expiring after the codec's TTL.
func (c *TokenCodec) Sign(cred Credential) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  cred.ID,
		"iat": now.Unix(),
		"exp": now.Add(c.ttl).Unix(),
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

var errNoneAlgorithm = errors.New("token signed with algorithm none")

// Verify decodes and validates a bearer token string. The check order is
// fixed: signature/format failures surface before the missing-id check, and
// only the first applicable failure is returned.
func (c *TokenCodec) Verify(tokenString string) (Credential, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() == "none" {
			return nil, errNoneAlgorithm
		}
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	})

	switch {
	case err == nil:
	case errors.Is(err, errNoneAlgorithm):
		return Credential{}, apperr.Wrap(apperr.KindAuth, MsgSignatureRequired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return Credential{}, apperr.Wrap(apperr.KindAuth, MsgInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return Credential{}, apperr.Wrap(apperr.KindAuth, MsgTokenExpired, err)
	default:
		// Any other decode failure surfaces the decoder's message.
		return Credential{}, apperr.Wrap(apperr.KindAuth, err.Error(), err)
	}

	id, _ := claims["id"].(string)
	if id == "" {
		return Credential{}, apperr.New(apperr.KindAuth, MsgTokenIDRequired)
	}

	return Credential{ID: id}, nil
}
