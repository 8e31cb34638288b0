package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "token-utils-test-secret"

func TestIssueAndParseOperatorToken(t *testing.T) {
	token, err := IssueOperatorToken(" cashier-7 ", secret, "cashdesk", time.Hour, time.Now())
	require.NoError(t, err)

	operator, err := ParseOperatorToken(token, secret, "cashdesk")
	require.NoError(t, err)
	assert.Equal(t, "cashier-7", operator)
}

func TestParseOperatorToken_Rejects(t *testing.T) {
	valid, err := IssueOperatorToken("cashier-7", secret, "cashdesk", time.Hour, time.Now())
	require.NoError(t, err)
	expired, err := IssueOperatorToken("cashier-7", secret, "cashdesk", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		issuer  string
		wantErr error
	}{
		{name: "wrong secret", token: valid, secret: "other", issuer: "cashdesk", wantErr: jwt.ErrTokenSignatureInvalid},
		{name: "wrong issuer", token: valid, secret: secret, issuer: "elsewhere", wantErr: jwt.ErrTokenInvalidIssuer},
		{name: "expired", token: expired, secret: secret, issuer: "cashdesk", wantErr: jwt.ErrTokenExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOperatorToken(tt.token, tt.secret, tt.issuer)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// An empty issuer skips the issuer check.
	_, err = ParseOperatorToken(valid, secret, "")
	assert.NoError(t, err)
}

func TestIssueOperatorToken_RequiresOperator(t *testing.T) {
	_, err := IssueOperatorToken("  ", secret, "cashdesk", time.Hour, time.Now())
	assert.ErrorIs(t, err, ErrInvalidOperator)
}
