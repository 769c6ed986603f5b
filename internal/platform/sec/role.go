// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Authorization Tiers

// Tier is the access level derived from a request's credentials.
type Tier int

const (
	// TierAnonymous has no valid credentials.
	TierAnonymous Tier = iota

	// TierMember holds a valid access token.
	TierMember

	// TierTrustedMember may create and edit movies.
	TierTrustedMember

	// TierAdmin may delete movies.
	TierAdmin
)

// String returns the tier name used in logs.
func (t Tier) String() string {
	switch t {
	case TierMember:
		return "member"
	case TierTrustedMember:
		return "trusted_member"
	case TierAdmin:
		return "admin"
	default:
		return "anonymous"
	}
}

// AtLeast checks if the current tier meets or exceeds the target tier.
func (t Tier) AtLeast(target Tier) bool {
	return t >= target
}

// TierOf derives the tier from verified claims and whether a valid API key was presented.
//
// The API key only unlocks [TierAdmin]; it never implies a user identity.
func TierOf(claims *AuthClaims, validAPIKey bool) Tier {
	switch {
	case validAPIKey || claims.IsAdmin():
		return TierAdmin
	case claims.IsTrustedMember():
		return TierTrustedMember
	case claims != nil:
		return TierMember
	default:
		return TierAnonymous
	}
}
