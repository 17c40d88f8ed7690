package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID uuid.UUID
	Role   string
	Exp    time.Time
}

// accessClaims: формат access-токена сервиса авторизации: sub = id пользователя, role: роль.
type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AccessVerifier проверяет HS256 access-токены по общему с сервисом авторизации секрету.
type AccessVerifier struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

func NewAccessVerifier(secret, issuer, audience string) *AccessVerifier {
	return &AccessVerifier{secret: []byte(secret), issuer: issuer, audience: audience, now: time.Now}
}

func (v *AccessVerifier) parser() *jwt.Parser {
	return jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
}

func (v *AccessVerifier) ParseAndValidateAccess(ctx context.Context, raw string) (*Claims, error) {
	var ac accessClaims
	if _, err := v.parser().ParseWithClaims(raw, &ac, func(*jwt.Token) (any, error) { return v.secret, nil }); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	uid, err := uuid.Parse(ac.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}
	return &Claims{UserID: uid, Role: ac.Role, Exp: ac.ExpiresAt.Time}, nil
}

// Issue подписывает токен в том же формате. В проде токены выпускает сервис авторизации;
// здесь это нужно тестам и локальной отладке.
func (v *AccessVerifier) Issue(ctx context.Context, userID uuid.UUID, role string, ttl time.Duration) (string, time.Time, error) {
	now := v.now()
	exp := now.Add(ttl)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    v.issuer,
			Audience:  jwt.ClaimStrings{v.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}).SignedString(v.secret)
	return signed, exp, err
}
