package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidOperator is returned when a token is requested without an operator ID.
var ErrInvalidOperator = errors.New("operator id is required")

// IssueOperatorToken signs an HS256 bearer token whose subject is the operator
// recorded in the audit fields of every posting made with it.
func IssueOperatorToken(operatorID, secret, issuer string, ttl time.Duration, now time.Time) (string, error) {
	operatorID = strings.TrimSpace(operatorID)
	if operatorID == "" {
		return "", ErrInvalidOperator
	}
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   operatorID,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseOperatorToken validates signature, expiry and (when set) issuer and
// returns the operator ID.
func ParseOperatorToken(tokenString, secret, issuer string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenSignatureInvalid
	}
	if claims.Subject == "" {
		return "", ErrInvalidOperator
	}
	return claims.Subject, nil
}
