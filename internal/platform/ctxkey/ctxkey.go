// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// An unexported key type keeps these values from colliding with string keys set
// by third-party packages.
package ctxkey

type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyUser is the context key for verified token claims ([sec.AuthClaims]).
	KeyUser key = "user"

	// KeyTier is the context key for the caller's [sec.Tier].
	KeyTier key = "tier"

	// KeyUserSlot is the context key for the [ctxutil.UserSlot] placed by the access logger.
	KeyUserSlot key = "user_slot"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)
