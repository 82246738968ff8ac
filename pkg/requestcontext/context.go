// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them; services only read, so the
// services stay free of net/http.
package requestcontext

import (
	"context"
	"time"
)

// Admin identifies an authenticated moderator and the jurisdiction the
// moderator is authorized for.
type Admin struct {
	ID     int64
	Region string
	City   string
}

type (
	adminKey       struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// RequestID retrieves the request ID from the context, or "" if not set.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// AdminClaims retrieves the authenticated moderator from the context.
func AdminClaims(ctx context.Context) (Admin, bool) {
	admin, ok := ctx.Value(adminKey{}).(Admin)
	return admin, ok
}

// WithAdminClaims injects moderator claims into the context.
func WithAdminClaims(ctx context.Context, admin Admin) context.Context {
	return context.WithValue(ctx, adminKey{}, admin)
}

// Now returns the request time if one was injected (tests pin it), falling
// back to the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the request time, letting tests make window math
// deterministic.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
