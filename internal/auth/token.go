package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims identify a session. The signature only proves the token was minted here;
// whether it is still usable is decided by the session row.
type Claims struct {
	UserID    int64
	SessionID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

func (i *TokenIssuer) Issue(c Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        c.SessionID,
		Subject:   strconv.FormatInt(c.UserID, 10),
		IssuedAt:  jwt.NewNumericDate(c.IssuedAt),
		ExpiresAt: jwt.NewNumericDate(c.ExpiresAt),
	})
	return token.SignedString(i.secret)
}

func (i *TokenIssuer) Parse(tokenString string) (Claims, error) {
	rc := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, rc, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if rc.ID == "" || rc.ExpiresAt == nil {
		return Claims{}, ErrInvalidToken
	}
	uid, err := strconv.ParseInt(rc.Subject, 10, 64)
	if err != nil || uid <= 0 {
		return Claims{}, ErrInvalidToken
	}
	c := Claims{UserID: uid, SessionID: rc.ID, ExpiresAt: rc.ExpiresAt.Time}
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Time
	}
	return c, nil
}
