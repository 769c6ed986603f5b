// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/taibuivan/cinemadb/internal/platform/apperr"
	"github.com/taibuivan/cinemadb/internal/platform/constants"
	"github.com/taibuivan/cinemadb/internal/platform/ctxutil"
	"github.com/taibuivan/cinemadb/internal/platform/respond"
	"github.com/taibuivan/cinemadb/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate resolves the caller's identity and tier.
//
// # Flow
//  1. A 'Authorization: Bearer <token>' header is verified via [TokenVerifier].
//     A malformed or invalid token aborts with 401.
//  2. An 'x-api-key' header matching apiKey raises the tier to [sec.TierAdmin].
//  3. Claims and tier are injected into the request context.
//
// Requests with neither credential proceed as [sec.TierAnonymous].
func Authenticate(verifier TokenVerifier, apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			var claims *sec.AuthClaims

			// ── 1. Bearer Token ───────────────────────────────────────────────
			if authHeader := request.Header.Get(constants.HeaderAuthorization); authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
					respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
					return
				}

				verified, err := verifier.VerifyToken(parts[1])
				if err != nil {
					respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
					return
				}
				claims = verified
			}

			// ── 2. API Key ────────────────────────────────────────────────────
			presented := request.Header.Get(constants.HeaderAPIKey)
			validAPIKey := apiKey != "" && presented != "" &&
				subtle.ConstantTimeCompare([]byte(presented), []byte(apiKey)) == 1

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := request.Context()
			if claims != nil {
				ctx = ctxutil.WithAuthUser(ctx, claims)
			}
			ctx = ctxutil.WithTier(ctx, sec.TierOf(claims, validAPIKey))

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireTier blocks requests whose tier is below the target.
//
// Must be registered AFTER [Authenticate]. Anonymous callers receive 401,
// authenticated callers with an insufficient tier receive 403.
func RequireTier(target sec.Tier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			tier := ctxutil.GetTier(request.Context())

			if tier == sec.TierAnonymous {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if !tier.AtLeast(target) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
