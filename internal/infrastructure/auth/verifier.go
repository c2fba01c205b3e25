package auth

import (
	"errors"

	"github.com/milorg/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrInvalidActorID   = errors.New("token subject is not a valid actor ID")
)

// Claims are the token claims this service reads. Tokens are issued by the
// personnel system; the subject carries the actor's ID.
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
	Rank string `json:"rank,omitempty"`
}

// Actor is the verified caller of a request
type Actor struct {
	ID   uuid.UUID
	Name string
	Rank string
}

// TokenVerifier verifies bearer tokens. This service never issues tokens.
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier creates a new TokenVerifier
func NewTokenVerifier(cfg config.JWTConfig) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
	}
}

// Verify parses and validates the token, returning the actor it names
func (v *TokenVerifier) Verify(tokenString string) (*Actor, error) {
	parseOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.issuer != "" {
		parseOpts = append(parseOpts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, parseOpts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	actorID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidActorID
	}

	return &Actor{
		ID:   actorID,
		Name: claims.Name,
		Rank: claims.Rank,
	}, nil
}
