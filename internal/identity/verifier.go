package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the verified output of a token check: who the caller is, plus
// the optional storefront binding a customer session carries.
type Claims struct {
	UID        uuid.UUID
	Email      string
	TenantSlug string
}

// Verifier turns a raw credential into verified claims.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

type jwtClaims struct {
	Sub        string `json:"sub"`
	Email      string `json:"email"`
	TenantSlug string `json:"tenant_slug,omitempty"`
	jwt.RegisteredClaims
}

type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(ctx context.Context, tokenStr string) (*Claims, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, fmt.Errorf("token expired")
	}

	uid, err := uuid.Parse(claims.Sub)
	if err != nil {
		return nil, fmt.Errorf("invalid subject: %w", err)
	}

	return &Claims{UID: uid, Email: claims.Email, TenantSlug: claims.TenantSlug}, nil
}
