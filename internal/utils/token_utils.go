package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the "typ" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// AppClaims are the claims issued by the portal. Role is only set on access tokens.
type AppClaims struct {
	jwt.RegisteredClaims
	Type     string `json:"typ"`
	Role     string `json:"role,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// TokenSubject describes the user a token is issued for.
type TokenSubject struct {
	UserID   string
	Role     string
	Username string
	Email    string
}

// GenerateJWT generates a new access token for the given subject.
func GenerateJWT(subject TokenSubject, secret string, expiryDuration time.Duration, issuer string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(expiryDuration)
	claims := AppClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject.UserID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		Type:     TokenTypeAccess,
		Role:     subject.Role,
		Username: subject.Username,
		Email:    subject.Email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	return signed, expiresAt, err
}

// GenerateRefreshJWT generates a refresh token. It carries only the subject and a random ID.
func GenerateRefreshJWT(userID string, secret string, expiryDuration time.Duration, issuer string) (string, time.Time, error) {
	jti, err := GenerateSecureRandomString(16)
	if err != nil {
		return "", time.Time{}, err
	}
	now := time.Now()
	expiresAt := now.Add(expiryDuration)
	claims := AppClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		Type: TokenTypeRefresh,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	return signed, expiresAt, err
}

// ParseAndValidateJWT parses an access token, validates its signature and standard claims.
func ParseAndValidateJWT(tokenString string, secretKey string) (*AppClaims, error) {
	return parseClaims(tokenString, secretKey, TokenTypeAccess)
}

// ParseRefreshJWT parses a refresh token signed with the refresh secret.
func ParseRefreshJWT(tokenString string, secretKey string) (*AppClaims, error) {
	return parseClaims(tokenString, secretKey, TokenTypeRefresh)
}

func parseClaims(tokenString, secretKey, wantType string) (*AppClaims, error) {
	claims := &AppClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if claims.Type != wantType {
		return nil, errors.New("wrong token type")
	}

	return claims, nil
}
