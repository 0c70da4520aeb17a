package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roombook/pkg/clock"
	"roombook/pkg/model"
)

var issuedAt = time.Date(2024, 5, 30, 9, 0, 0, 0, time.UTC)

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier("secret", "roombook", clock.NewFixed(issuedAt))

	token, err := v.Issue(Principal{MemberID: "m1", Role: model.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	p, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "m1", p.MemberID)
	assert.True(t, p.IsAdmin())
}

func TestVerifier_Rejects(t *testing.T) {
	issuer := NewVerifier("secret", "roombook", clock.NewFixed(issuedAt))
	valid, err := issuer.Issue(Principal{MemberID: "m1", Role: model.RoleUser}, time.Hour)
	require.NoError(t, err)

	noRole, err := issuer.Issue(Principal{MemberID: "m1"}, time.Hour)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Role: model.RoleUser}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name     string
		verifier *Verifier
		token    string
		wantErr  error
	}{
		{"expired", NewVerifier("secret", "roombook", clock.NewFixed(issuedAt.Add(2*time.Hour))), valid, ErrTokenExpired},
		{"wrong secret", NewVerifier("other", "roombook", clock.NewFixed(issuedAt)), valid, ErrInvalidToken},
		{"wrong issuer", NewVerifier("secret", "someone-else", clock.NewFixed(issuedAt)), valid, ErrInvalidToken},
		{"garbage", issuer, "not-a-token", ErrInvalidToken},
		{"unsigned", issuer, noneToken, ErrInvalidToken},
		{"unknown role", issuer, noRole, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.verifier.Verify(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
