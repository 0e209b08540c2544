package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenMaker signs session ids into the cookie value, so a tampered
// cookie parses as "no session" instead of pointing at someone else's.
type TokenMaker struct {
	secret []byte
	issuer string
}

func NewTokenMaker(secret string) *TokenMaker {
	return &TokenMaker{
		secret: []byte(secret),
		issuer: "ubermelon",
	}
}

type claims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

func (t *TokenMaker) New(sid string, ttl time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(t.secret)
}

// Parse returns the session id carried by tokenStr.
func (t *TokenMaker) Parse(tokenStr string) (string, error) {
	var c claims

	token, err := jwt.ParseWithClaims(tokenStr, &c, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	if c.Issuer != "" && c.Issuer != t.issuer {
		return "", errors.New("invalid issuer")
	}
	if c.SID == "" {
		return "", errors.New("empty session id")
	}

	return c.SID, nil
}
