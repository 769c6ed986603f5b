// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taibuivan/cinemadb/internal/platform/ctxkey"
	"github.com/taibuivan/cinemadb/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context, falling back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// UserSlot receives the caller's identity once authentication resolves it.
//
// Middleware that wraps authentication (the access logger) places a slot in the
// context it passes down and reads it after the handler returns.
type UserSlot struct {
	claims *sec.AuthClaims
}

// UserID returns the authenticated user's id, or nil.
func (slot *UserSlot) UserID() *uuid.UUID {
	if slot == nil {
		return nil
	}
	return slot.claims.UserUUID()
}

// WithUserSlot returns a context carrying an empty [UserSlot].
func WithUserSlot(ctx context.Context) (context.Context, *UserSlot) {
	slot := &UserSlot{}
	return context.WithValue(ctx, ctxkey.KeyUserSlot, slot), slot
}

// WithAuthUser returns a new context with the provided auth claims attached.
// A [UserSlot] already in ctx is filled with the same claims.
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	if slot, ok := ctx.Value(ctxkey.KeyUserSlot).(*UserSlot); ok {
		slot.claims = user
	}
	return context.WithValue(ctx, ctxkey.KeyUser, user)
}

// GetAuthUser retrieves the [*sec.AuthClaims] from the context, or nil.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, ok := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}

// WithTier returns a new context carrying the caller's authorization tier.
func WithTier(ctx context.Context, tier sec.Tier) context.Context {
	return context.WithValue(ctx, ctxkey.KeyTier, tier)
}

// GetTier retrieves the caller's tier. Requests that skipped authentication are anonymous.
func GetTier(ctx context.Context) sec.Tier {
	tier, ok := ctx.Value(ctxkey.KeyTier).(sec.Tier)
	if !ok {
		return sec.TierAnonymous
	}
	return tier
}

// GetUserID returns the requesting user's id from the token claims, or nil.
func GetUserID(ctx context.Context) *uuid.UUID {
	return GetAuthUser(ctx).UserUUID()
}
