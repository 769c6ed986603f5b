// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec verifies bearer tokens and derives the caller's authorization tier.
//
// # Architecture
//
// Tokens are issued by an external identity service and signed with a shared
// HS256 key. This package only verifies them; it never mints tokens outside tests.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claim names carried by access tokens.
const (
	ClaimUserID        = "userid"
	ClaimAdmin         = "admin"
	ClaimTrustedMember = "trusted_member"
)

// AuthClaims is the payload embedded inside an access token.
//
// Admin and TrustedMember are JSON strings ("true") because the identity
// service emits every custom claim as a string.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID        string `json:"userid,omitempty"`
	Admin         string `json:"admin,omitempty"`
	TrustedMember string `json:"trusted_member,omitempty"`
}

// UserUUID parses the userid claim. It returns nil when the claim is absent or malformed.
func (c *AuthClaims) UserUUID() *uuid.UUID {
	if c == nil {
		return nil
	}
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return nil
	}
	return &id
}

// IsAdmin reports whether the admin claim is set.
func (c *AuthClaims) IsAdmin() bool {
	return c != nil && c.Admin == "true"
}

// IsTrustedMember reports whether the trusted_member claim is set.
func (c *AuthClaims) IsTrustedMember() bool {
	return c != nil && c.TrustedMember == "true"
}

// TokenService verifies HS256 access tokens against a fixed issuer and audience.
type TokenService struct {
	key      []byte
	issuer   string
	audience string
}

// NewTokenService creates a new TokenService.
func NewTokenService(key, issuer, audience string) (*TokenService, error) {
	if key == "" {
		return nil, errors.New("sec: signing key is empty")
	}
	return &TokenService{
		key:      []byte(key),
		issuer:   issuer,
		audience: audience,
	}, nil
}

// VerifyToken checks the signature, lifetime, issuer and audience of a token string.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
			}
			return service.key, nil
		},
		jwt.WithIssuer(service.issuer),
		jwt.WithAudience(service.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, errors.New("sec: invalid token claims")
	}

	return claims, nil
}

// IssueToken signs claims with the service key. Intended for tests and local tooling.
func (service *TokenService) IssueToken(claims AuthClaims, timeToLive time.Duration) (string, error) {
	now := time.Now()
	claims.Issuer = service.issuer
	claims.Audience = jwt.ClaimStrings{service.audience}
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(timeToLive))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.key)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}
	return signed, nil
}
