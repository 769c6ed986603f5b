// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinemadb/internal/platform/sec"
)

func newService(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService("test-key", "https://id.test", "https://movies.test")
	require.NoError(t, err)
	return service
}

/*
TestTokenService_RoundTrip verifies a freshly issued token and reads back its claims.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newService(t)
	userID := uuid.New()

	token, err := service.IssueToken(sec.AuthClaims{UserID: userID.String(), TrustedMember: "true"}, time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	require.NotNil(t, claims.UserUUID())
	assert.Equal(t, userID, *claims.UserUUID())
	assert.True(t, claims.IsTrustedMember())
	assert.False(t, claims.IsAdmin())
}

/*
TestTokenService_Rejects covers expired tokens, foreign keys and audience mismatches.
*/
func TestTokenService_Rejects(t *testing.T) {
	service := newService(t)

	expired, err := service.IssueToken(sec.AuthClaims{UserID: uuid.NewString()}, -time.Minute)
	require.NoError(t, err)

	other, err := sec.NewTokenService("other-key", "https://id.test", "https://movies.test")
	require.NoError(t, err)
	foreign, err := other.IssueToken(sec.AuthClaims{}, time.Minute)
	require.NoError(t, err)

	wrongAudience, err := sec.NewTokenService("test-key", "https://id.test", "https://elsewhere.test")
	require.NoError(t, err)
	misdirected, err := wrongAudience.IssueToken(sec.AuthClaims{}, time.Minute)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":        expired,
		"foreign_key":    foreign,
		"wrong_audience": misdirected,
		"garbage":        "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := service.VerifyToken(token)
			assert.Error(t, err)
		})
	}
}

func TestNewTokenService_EmptyKey(t *testing.T) {
	_, err := sec.NewTokenService("", "iss", "aud")
	assert.Error(t, err)
}

/*
TestTierOf maps claims and API keys onto tiers.
*/
func TestTierOf(t *testing.T) {
	tests := []struct {
		name   string
		claims *sec.AuthClaims
		apiKey bool
		want   sec.Tier
	}{
		{"anonymous", nil, false, sec.TierAnonymous},
		{"member", &sec.AuthClaims{UserID: "u"}, false, sec.TierMember},
		{"trusted", &sec.AuthClaims{TrustedMember: "true"}, false, sec.TierTrustedMember},
		{"admin_claim", &sec.AuthClaims{Admin: "true"}, false, sec.TierAdmin},
		{"api_key", nil, true, sec.TierAdmin},
		{"trusted_false_string", &sec.AuthClaims{TrustedMember: "false"}, false, sec.TierMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sec.TierOf(tt.claims, tt.apiKey)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.True(t, sec.TierAdmin.AtLeast(sec.TierTrustedMember))
	assert.False(t, sec.TierMember.AtLeast(sec.TierTrustedMember))
	assert.Equal(t, "trusted_member", sec.TierTrustedMember.String())
}

func TestAuthClaims_UserUUID_Malformed(t *testing.T) {
	assert.Nil(t, (&sec.AuthClaims{UserID: "nope"}).UserUUID())
	assert.Nil(t, (*sec.AuthClaims)(nil).UserUUID())
}
