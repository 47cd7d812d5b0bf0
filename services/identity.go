package services

import (
	"context"
	"fmt"

	"github.com/dgrijalva/jwt-go"
)

// IdentityClient verifikuje sesijski token eksternog provajdera identiteta
// i vraća eksterni ID korisnika. Klijent se eksplicitno konstruiše i
// prosleđuje middleware-u; ne postoji globalna instanca.
type IdentityClient interface {
	VerifySession(ctx context.Context, token string) (string, error)
}

// JWTIdentityClient verifikuje HS256 potpisane sesijske tokene
type JWTIdentityClient struct {
	secret []byte
}

func NewJWTIdentityClient(secret string) *JWTIdentityClient {
	return &JWTIdentityClient{secret: []byte(secret)}
}

func (c *JWTIdentityClient) VerifySession(ctx context.Context, tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("session token missing subject")
	}

	return sub, nil
}
