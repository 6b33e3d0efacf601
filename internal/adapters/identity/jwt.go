package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace-engine/internal/domain/shared"
	"marketplace-engine/internal/ports/outbound"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = fmt.Errorf("%w: invalid token", shared.ErrUnauthenticated)
	ErrExpiredToken = fmt.Errorf("%w: token expired", shared.ErrUnauthenticated)
)

// Claims are the profile claims carried by an identity token
type Claims struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// JWTProvider verifies HS256 identity tokens and maps them onto principals
type JWTProvider struct {
	secretKey []byte
	issuer    string
	now       func() time.Time
}

type JWTProviderParams struct {
	Secret string
	// Issuer, when set, must match the token's iss claim
	Issuer string
}

var _ outbound.IdentityProvider = (*JWTProvider)(nil)

func NewJWTProvider(params JWTProviderParams) *JWTProvider {
	return &JWTProvider{
		secretKey: []byte(params.Secret),
		issuer:    params.Issuer,
		now:       time.Now,
	}
}

// Resolve validates credential and returns the principal it asserts
func (p *JWTProvider) Resolve(ctx context.Context, credential string) (*shared.Principal, error) {
	if credential == "" {
		return nil, shared.ErrMissingPrincipal
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
	}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	token, err := jwt.ParseWithClaims(credential, &Claims{}, func(token *jwt.Token) (any, error) {
		return p.secretKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &shared.Principal{
		Subject:     claims.Subject,
		DisplayName: claims.Name,
		Email:       claims.Email,
		AvatarURL:   claims.Picture,
	}, nil
}

// Issue signs a token for principal. Used by the dev CLI and tests.
func (p *JWTProvider) Issue(principal shared.Principal, ttl time.Duration) (string, error) {
	now := p.now()
	claims := Claims{
		Name:    principal.DisplayName,
		Email:   principal.Email,
		Picture: principal.AvatarURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.Subject,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secretKey)
}
